package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goCAS/store"
)

// RevokeFailureKind classifies revocation failures.
type RevokeFailureKind int

const (
	RevokeFailureNone RevokeFailureKind = iota
	RevokeFailureNotOwner
	RevokeFailureStore
)

// RevokeStore is the store surface used by revocation.
type RevokeStore interface {
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// RevokeDeps captures revocation dependencies.
type RevokeDeps struct {
	Store            RevokeStore
	Keys             store.Keyspace
	RequireOwnership bool
}

// RevokeResult reports what was deleted.
type RevokeResult struct {
	Failure        RevokeFailureKind
	Err            error
	TicketDeleted  bool
	SessionDeleted bool
}

// RunRevokeSession deletes the caller's global ticket, if one is given, and
// the session record of userID. With RequireOwnership the record is only
// deleted when globalTicket resolves to userID.
//
// The two keys are deleted with separate commands so they may live on
// different cluster slots.
func RunRevokeSession(ctx context.Context, userID, globalTicket string, deps RevokeDeps) RevokeResult {
	hasTicket := !blank(globalTicket)
	owner := !deps.RequireOwnership

	if deps.RequireOwnership && hasTicket {
		resolved, err := deps.Store.Get(ctx, deps.Keys.GlobalTicket(globalTicket))
		switch {
		case err == nil:
			owner = resolved == userID
		case errors.Is(err, store.ErrNotFound):
			owner = false
		default:
			return RevokeResult{Failure: RevokeFailureStore, Err: err}
		}
	}

	var result RevokeResult
	if hasTicket {
		if err := deps.Store.Delete(ctx, deps.Keys.GlobalTicket(globalTicket)); err != nil {
			return RevokeResult{Failure: RevokeFailureStore, Err: err}
		}
		result.TicketDeleted = true
	}

	if blank(userID) {
		return result
	}
	if !owner {
		result.Failure = RevokeFailureNotOwner
		return result
	}

	if err := deps.Store.Delete(ctx, deps.Keys.Session(userID)); err != nil {
		result.Failure = RevokeFailureStore
		result.Err = err
		return result
	}
	result.SessionDeleted = true
	return result
}

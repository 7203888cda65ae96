package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/goCAS/store"
)

// EstablishFailureKind classifies session establishment failures.
type EstablishFailureKind int

const (
	EstablishFailureNone EstablishFailureKind = iota
	EstablishFailureToken
	EstablishFailureStore
)

// EstablishResult carries the minted global ticket or failure metadata.
type EstablishResult struct {
	Failure      EstablishFailureKind
	Err          error
	GlobalTicket string
}

// EstablishDeps captures session establishment dependencies.
type EstablishDeps struct {
	Store     TicketWriter
	Keys      store.Keyspace
	NewToken  func() (string, error)
	TicketTTL time.Duration
	RecordTTL time.Duration
}

// RunEstablishSession upserts the session record for userID and then links a
// freshly minted global ticket to it. Earlier tickets of the same user are
// left untouched.
func RunEstablishSession(ctx context.Context, userID string, record []byte, deps EstablishDeps) EstablishResult {
	if err := deps.Store.Set(ctx, deps.Keys.Session(userID), string(record), deps.RecordTTL); err != nil {
		return EstablishResult{Failure: EstablishFailureStore, Err: err}
	}

	token, err := deps.NewToken()
	if err != nil {
		return EstablishResult{Failure: EstablishFailureToken, Err: err}
	}

	if err := deps.Store.Set(ctx, deps.Keys.GlobalTicket(token), userID, deps.TicketTTL); err != nil {
		return EstablishResult{Failure: EstablishFailureStore, Err: err}
	}

	return EstablishResult{GlobalTicket: token}
}

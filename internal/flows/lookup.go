package flows

import (
	"context"
	"errors"
	"strings"

	"github.com/MrEthical07/goCAS/store"
)

type lookupFailure int

const (
	lookupOK lookupFailure = iota
	lookupTicketUnknown
	lookupSessionMissing
	lookupStore
)

// lookupSession follows ticket:global:<ticket> to session:<userID> and returns
// both the user id and the raw record.
func lookupSession(ctx context.Context, src SessionReader, keys store.Keyspace, ticket string) (string, string, lookupFailure, error) {
	userID, err := src.Get(ctx, keys.GlobalTicket(ticket))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", lookupTicketUnknown, nil
		}
		return "", "", lookupStore, err
	}
	if strings.TrimSpace(userID) == "" {
		return "", "", lookupTicketUnknown, nil
	}

	record, err := src.Get(ctx, keys.Session(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return userID, "", lookupSessionMissing, nil
		}
		return userID, "", lookupStore, err
	}

	return userID, record, lookupOK, nil
}

func refreshSliding(ctx context.Context, src SessionReader, keys store.Keyspace, policy SlidingPolicy, ticket, userID string, warn func(string, ...any)) {
	if !policy.Enabled {
		return
	}

	if policy.TicketTTL > 0 {
		if err := src.Expire(ctx, keys.GlobalTicket(ticket), policy.TicketTTL); err != nil && !errors.Is(err, store.ErrNotFound) {
			warnf(warn, "goCAS: sliding ticket ttl refresh failed", "user_id", userID, "error", err)
		}
	}
	if policy.RecordTTL > 0 {
		if err := src.Expire(ctx, keys.Session(userID), policy.RecordTTL); err != nil && !errors.Is(err, store.ErrNotFound) {
			warnf(warn, "goCAS: sliding session ttl refresh failed", "user_id", userID, "error", err)
		}
	}
}

func warnf(warn func(string, ...any), msg string, args ...any) {
	if warn != nil {
		warn(msg, args...)
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

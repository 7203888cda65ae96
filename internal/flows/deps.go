package flows

import (
	"context"
	"time"
)

// Deps groups flow dependency sets. The root Authority builds this once and
// delegates each operation to the matching flow implementation.
type Deps struct {
	Check     CheckDeps
	Establish EstablishDeps
	Issue     IssueDeps
	Verify    VerifyDeps
	Revoke    RevokeDeps
}

// SessionReader resolves the global ticket and session record links.
type SessionReader interface {
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// TicketWriter persists tickets and session records.
type TicketWriter interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// SlidingPolicy refreshes global ticket and session record TTLs after a
// successful resolution. It is inert unless Enabled.
type SlidingPolicy struct {
	Enabled   bool
	TicketTTL time.Duration
	RecordTTL time.Duration
}

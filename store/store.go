package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key is absent or expired.
	ErrNotFound = errors.New("store: key not found")
	// ErrUnavailable wraps any failure of the backing service.
	ErrUnavailable = errors.New("store: backend unavailable")
)

// Store is the key/value contract the Ticket Authority depends on.
//
// A ttl of zero means the key never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Consume returns the value stored under key and removes the key.
	Consume(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// ConsumeMode selects how [Store.Consume] removes a key.
type ConsumeMode int

const (
	// ConsumeGetDel uses the native GETDEL command (Redis >= 6.2).
	ConsumeGetDel ConsumeMode = iota
	// ConsumeScript runs GET and DEL inside a server-side Lua script.
	ConsumeScript
	// ConsumeGetThenDelete issues GET followed by DEL. Two concurrent callers
	// may both observe the value. Only for single-writer deployments.
	ConsumeGetThenDelete
)

// String returns the configuration name of the mode.
func (m ConsumeMode) String() string {
	switch m {
	case ConsumeGetDel:
		return "getdel"
	case ConsumeScript:
		return "script"
	case ConsumeGetThenDelete:
		return "get-then-delete"
	default:
		return "unknown"
	}
}

// ParseConsumeMode maps a configuration name back to a [ConsumeMode].
func ParseConsumeMode(name string) (ConsumeMode, error) {
	switch name {
	case "", "getdel":
		return ConsumeGetDel, nil
	case "script":
		return ConsumeScript, nil
	case "get-then-delete":
		return ConsumeGetThenDelete, nil
	default:
		return 0, errors.New("store: unknown consume mode " + name)
	}
}

// Atomic reports whether the mode guarantees a single observer.
func (m ConsumeMode) Atomic() bool {
	return m == ConsumeGetDel || m == ConsumeScript
}

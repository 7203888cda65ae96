package goCAS

import (
	"errors"
	"maps"
	"time"

	"github.com/MrEthical07/goCAS/session"
	"github.com/MrEthical07/goCAS/store"
)

// DefaultTemporaryTicketTTL is the lifetime of a temporary ticket.
const DefaultTemporaryTicketTTL = 600 * time.Second

// Config holds Authority settings. It is copied at Build time and treated as
// immutable afterwards.
type Config struct {
	Tickets  TicketConfig
	Sessions SessionConfig
	Logout   LogoutConfig
	Store    StoreConfig
	Metrics  MetricsConfig
}

/*
====================================
TICKET CONFIG
====================================
*/

// TicketConfig controls ticket lifetimes.
type TicketConfig struct {
	// TemporaryTTL bounds how long a temporary ticket may wait for verification.
	TemporaryTTL time.Duration
	// GlobalTicketTTL is the lifetime of a global ticket. Zero means no expiry.
	GlobalTicketTTL time.Duration
	// SlidingGlobalTTL resets the global ticket and session record TTLs on
	// every successful check or verification. Requires GlobalTicketTTL > 0.
	SlidingGlobalTTL bool
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the stored session record.
type SessionConfig struct {
	// RecordTTL is the lifetime of session:<userId>. Zero follows
	// Tickets.GlobalTicketTTL.
	RecordTTL time.Duration
	// MaxRecordSize bounds the encoded record in bytes.
	MaxRecordSize int
}

/*
====================================
LOGOUT CONFIG
====================================
*/

// LogoutConfig controls RevokeSession.
type LogoutConfig struct {
	// RequireTicketOwnership restricts session deletion to callers whose
	// global ticket resolves to the requested user.
	RequireTicketOwnership bool
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig controls how the Authority talks to the session store.
type StoreConfig struct {
	// KeyNamespace is prepended to every key. Empty keeps the bare layout
	// shared with other ticket brokers.
	KeyNamespace string
	// ConsumeMode selects the temporary ticket consume primitive used when the
	// Authority builds its own RedisStore.
	ConsumeMode store.ConsumeMode
	// AllowBestEffortConsume must be set to use store.ConsumeGetThenDelete.
	AllowBestEffortConsume bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig enables in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Tickets: TicketConfig{
			TemporaryTTL: DefaultTemporaryTicketTTL,
		},
		Sessions: SessionConfig{
			MaxRecordSize: session.DefaultMaxRecordSize,
		},
		Store: StoreConfig{
			ConsumeMode: store.ConsumeGetDel,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first configuration error it finds.
func (c *Config) Validate() error {
	// Tickets
	if c.Tickets.TemporaryTTL < time.Second {
		return errors.New("Tickets TemporaryTTL must be >= 1s")
	}
	if c.Tickets.GlobalTicketTTL < 0 {
		return errors.New("Tickets GlobalTicketTTL must be >= 0")
	}
	if c.Tickets.GlobalTicketTTL > 0 && c.Tickets.GlobalTicketTTL < time.Second {
		return errors.New("Tickets GlobalTicketTTL must be 0 or >= 1s")
	}
	if c.Tickets.SlidingGlobalTTL && c.Tickets.GlobalTicketTTL <= 0 {
		return errors.New("Tickets SlidingGlobalTTL requires GlobalTicketTTL > 0")
	}

	// Sessions
	if c.Sessions.RecordTTL < 0 {
		return errors.New("Sessions RecordTTL must be >= 0")
	}
	if c.Sessions.RecordTTL > 0 && c.Sessions.RecordTTL < time.Second {
		return errors.New("Sessions RecordTTL must be 0 or >= 1s")
	}
	if c.Sessions.RecordTTL > 0 && c.Tickets.GlobalTicketTTL > 0 && c.Sessions.RecordTTL < c.Tickets.GlobalTicketTTL {
		return errors.New("Sessions RecordTTL must not be shorter than Tickets GlobalTicketTTL")
	}
	if c.Sessions.MaxRecordSize < 0 {
		return errors.New("Sessions MaxRecordSize must be >= 0")
	}

	// Store
	switch c.Store.ConsumeMode {
	case store.ConsumeGetDel, store.ConsumeScript:
	case store.ConsumeGetThenDelete:
		if !c.Store.AllowBestEffortConsume {
			return errors.New("Store ConsumeGetThenDelete requires AllowBestEffortConsume")
		}
	default:
		return errors.New("unsupported Store ConsumeMode")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

// recordTTL is the effective lifetime of a session record.
func (c Config) recordTTL() time.Duration {
	if c.Sessions.RecordTTL > 0 {
		return c.Sessions.RecordTTL
	}
	return c.Tickets.GlobalTicketTTL
}

func cloneAttributes(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	return maps.Clone(attrs)
}

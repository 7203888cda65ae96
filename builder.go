package goCAS

import (
	"errors"
	"log/slog"

	"github.com/MrEthical07/goCAS/internal"
	internalflows "github.com/MrEthical07/goCAS/internal/flows"
	"github.com/MrEthical07/goCAS/session"
	"github.com/MrEthical07/goCAS/store"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Authority. A Builder can be used for one Build call.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  store.Store

	authenticator Authenticator
	tokens        TokenGenerator
	logger        *slog.Logger

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis backs the Authority with a RedisStore on client, using
// Config.Store.ConsumeMode.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore backs the Authority with a custom store. It takes precedence over
// WithRedis.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithAuthenticator sets the external credential check.
func (b *Builder) WithAuthenticator(a Authenticator) *Builder {
	b.authenticator = a
	return b
}

// WithTokenGenerator overrides ticket token minting.
func (b *Builder) WithTokenGenerator(gen TokenGenerator) *Builder {
	b.tokens = gen
	return b
}

// WithLogger sets the structured logger. Without one the Authority is silent.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verification latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Authority.
func (b *Builder) Build() (*Authority, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backing := b.store
	if backing == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or store required")
		}
		backing = store.NewRedisStore(b.redis, cfg.Store.ConsumeMode)
	}

	if b.authenticator == nil {
		return nil, errors.New("authenticator required")
	}

	tokens := b.tokens
	if tokens == nil {
		tokens = internal.NewTicketToken
	}
	mint := func() (string, error) {
		return internal.CheckMinted(tokens())
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	keys := store.Keyspace{Namespace: cfg.Store.KeyNamespace}
	sliding := internalflows.SlidingPolicy{
		Enabled:   cfg.Tickets.SlidingGlobalTTL,
		TicketTTL: cfg.Tickets.GlobalTicketTTL,
		RecordTTL: cfg.recordTTL(),
	}
	maxRecord := cfg.Sessions.MaxRecordSize

	a := &Authority{
		config:        cfg,
		store:         backing,
		keys:          keys,
		authenticator: b.authenticator,
		metrics:       NewMetrics(cfg.Metrics),
		logger:        logger,
		maxRecordSize: maxRecord,
	}
	a.flows = internalflows.Deps{
		Check: internalflows.CheckDeps{
			Store:   backing,
			Keys:    keys,
			Sliding: sliding,
			Warn:    logger.Warn,
		},
		Establish: internalflows.EstablishDeps{
			Store:     backing,
			Keys:      keys,
			NewToken:  mint,
			TicketTTL: cfg.Tickets.GlobalTicketTTL,
			RecordTTL: cfg.recordTTL(),
		},
		Issue: internalflows.IssueDeps{
			Store:    backing,
			Keys:     keys,
			NewToken: mint,
			TTL:      cfg.Tickets.TemporaryTTL,
		},
		Verify: internalflows.VerifyDeps{
			Store: backing,
			Keys:  keys,
			DecodeRecord: func(data []byte) (session.Record, error) {
				return session.Decode(data, maxRecord)
			},
			Sliding: sliding,
			Warn:    logger.Warn,
		},
		Revoke: internalflows.RevokeDeps{
			Store:            backing,
			Keys:             keys,
			RequireOwnership: cfg.Logout.RequireTicketOwnership,
		},
	}

	b.built = true
	return a, nil
}

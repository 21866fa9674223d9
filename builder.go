package sessionkit

import (
	"errors"
	"net/http"

	"github.com/questline/sessionkit/credstore"
	"github.com/questline/sessionkit/handoff"
	"github.com/questline/sessionkit/internal/notify"
	"github.com/questline/sessionkit/internal/transport"
	"github.com/questline/sessionkit/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Builder defines a public type used by sessionkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	durable   credstore.Durable
	ephemeral credstore.Ephemeral

	httpClient *http.Client
	logger     *zerolog.Logger
	stateSink  StateSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithDurable describes the withdurable operation and its observable behavior.
//
// WithDurable may return an error when input validation, dependency calls, or security checks fail.
// WithDurable does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDurable(store credstore.Durable) *Builder {
	b.durable = store
	return b
}

// WithEphemeral describes the withephemeral operation and its observable behavior.
//
// WithEphemeral may return an error when input validation, dependency calls, or security checks fail.
// WithEphemeral does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEphemeral(store credstore.Ephemeral) *Builder {
	b.ephemeral = store
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithStateSink describes the withstatesink operation and its observable behavior.
//
// WithStateSink may return an error when input validation, dependency calls, or security checks fail.
// WithStateSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStateSink(sink StateSink) *Builder {
	b.stateSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- DURABLE STORE --------
	durable := b.durable
	if durable == nil {
		if b.redis == nil {
			return nil, errors.New("durable store or redis client required")
		}
		durable = credstore.NewRedisDurable(b.redis, cfg.Store.RedisPrefix)
	}

	// -------- EPHEMERAL STORE --------
	ephemeral := b.ephemeral
	if ephemeral == nil {
		if b.redis != nil {
			ephemeral = credstore.NewRedisEphemeral(b.redis, cfg.Store.RedisPrefix)
		} else {
			ephemeral = credstore.NewMemoryEphemeral()
		}
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	// -------- TOKEN CODEC --------
	codec, err := token.NewCodec(token.Config{MinLength: cfg.Token.MinLength})
	if err != nil {
		return nil, err
	}

	// -------- BACKEND CLIENT --------
	client, err := transport.NewClient(transport.Config{
		BaseURL:     cfg.Backend.BaseURL,
		TokenPath:   cfg.Backend.TokenPath,
		RefreshPath: cfg.Backend.RefreshPath,
		HTTPClient:  b.httpClient,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	// -------- CREDENTIALS --------
	own := credstore.NewCredentials(durable, cfg.Store.OwnNamespace)
	var peer *credstore.Credentials
	if cfg.Store.PeerNamespace != cfg.Store.OwnNamespace {
		peer = credstore.NewCredentials(durable, cfg.Store.PeerNamespace)
	}

	// -------- HANDOFF BROKER --------
	broker, err := handoff.NewBroker(handoff.NewStore(ephemeral), cfg.Handoff.EntryRoute, cfg.Handoff.TicketTTL)
	if err != nil {
		return nil, err
	}

	// -------- NOTIFY DISPATCHER --------
	dispatcher := notify.NewDispatcher(notify.Config{
		Enabled:    cfg.Notify.Enabled,
		BufferSize: cfg.Notify.BufferSize,
	}, b.stateSink)

	metrics := NewMetrics(cfg.Metrics)

	c := &Controller{
		cfg:        cfg,
		codec:      codec,
		client:     client,
		own:        own,
		peer:       peer,
		broker:     broker,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		state:      AuthState{Phase: PhaseUninitialized},
	}
	c.startRevalidator()

	b.built = true
	return c, nil
}

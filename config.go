package sessionkit

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Store      StoreConfig
	Backend    BackendConfig
	Login      LoginConfig
	Refresh    RefreshConfig
	Guard      GuardConfig
	Handoff    HandoffConfig
	Revalidate RevalidateConfig
	Notify     NotifyConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by sessionkit APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	MinLength int
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by sessionkit APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	RedisPrefix   string
	OwnNamespace  string
	PeerNamespace string
}

/*
====================================
BACKEND CONFIG
====================================
*/

// BackendConfig defines a public type used by sessionkit APIs.
//
// BackendConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BackendConfig struct {
	BaseURL     string
	TokenPath   string
	RefreshPath string
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig defines a public type used by sessionkit APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	Timeout time.Duration
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by sessionkit APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	Timeout    time.Duration
	RetryDelay time.Duration
	MaxRetries int
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig defines a public type used by sessionkit APIs.
//
// GuardConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardConfig struct {
	RequireAdmin bool
}

/*
====================================
HANDOFF CONFIG
====================================
*/

// HandoffConfig defines a public type used by sessionkit APIs.
//
// HandoffConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HandoffConfig struct {
	TicketTTL    time.Duration
	EntryRoute   string
	RequireAdmin bool
}

/*
====================================
REVALIDATE CONFIG
====================================
*/

// RevalidateConfig defines a public type used by sessionkit APIs.
//
// RevalidateConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RevalidateConfig struct {
	Enabled  bool
	Interval time.Duration
}

/*
====================================
NOTIFY CONFIG
====================================
*/

// NotifyConfig defines a public type used by sessionkit APIs.
//
// NotifyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NotifyConfig struct {
	Enabled    bool
	BufferSize int
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sessionkit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			MinLength: 20,
		},
		Store: StoreConfig{
			RedisPrefix:   "sk",
			OwnNamespace:  "",
			PeerNamespace: "",
		},
		Backend: BackendConfig{
			TokenPath:   "/auth/token",
			RefreshPath: "/auth/refresh",
		},
		Login: LoginConfig{
			Timeout: 10 * time.Second,
		},
		Refresh: RefreshConfig{
			Timeout:    9 * time.Second,
			RetryDelay: 500 * time.Millisecond,
			MaxRetries: 3,
		},
		Guard: GuardConfig{
			RequireAdmin: false,
		},
		Handoff: HandoffConfig{
			TicketTTL:    60 * time.Second,
			EntryRoute:   "/auth/direct",
			RequireAdmin: false,
		},
		Revalidate: RevalidateConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Notify: NotifyConfig{
			Enabled:    false,
			BufferSize: 1024,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if c.Token.MinLength < 0 {
		return errors.New("Token MinLength must be >= 0")
	}

	// Store
	if c.Store.OwnNamespace != "" && c.Store.OwnNamespace == c.Store.PeerNamespace {
		return errors.New("Store OwnNamespace and PeerNamespace must differ")
	}

	// Backend
	if c.Backend.BaseURL == "" {
		return errors.New("Backend BaseURL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Backend BaseURL must be an absolute URL")
	}
	if !strings.HasPrefix(c.Backend.TokenPath, "/") {
		return errors.New("Backend TokenPath must start with /")
	}
	if !strings.HasPrefix(c.Backend.RefreshPath, "/") {
		return errors.New("Backend RefreshPath must start with /")
	}

	// Login
	if c.Login.Timeout <= 0 {
		return errors.New("Login Timeout must be > 0")
	}

	// Refresh
	if c.Refresh.Timeout < 8*time.Second || c.Refresh.Timeout > 10*time.Second {
		return errors.New("Refresh Timeout must be between 8s and 10s")
	}
	if c.Refresh.RetryDelay < 0 {
		return errors.New("Refresh RetryDelay must be >= 0")
	}
	if c.Refresh.MaxRetries < 0 {
		return errors.New("Refresh MaxRetries must be >= 0")
	}

	// Handoff
	if c.Handoff.TicketTTL <= 0 {
		return errors.New("Handoff TicketTTL must be > 0")
	}
	if !strings.HasPrefix(c.Handoff.EntryRoute, "/") {
		return errors.New("Handoff EntryRoute must start with /")
	}

	// Revalidate
	if c.Revalidate.Enabled && c.Revalidate.Interval <= 0 {
		return errors.New("Revalidate Interval must be > 0 when enabled")
	}

	// Notify
	if c.Notify.Enabled && c.Notify.BufferSize <= 0 {
		return errors.New("Notify BufferSize must be > 0 when enabled")
	}

	return nil
}

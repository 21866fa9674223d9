package sessionkit

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.Backend.BaseURL = "https://auth.example.com"
	return cfg
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Token.MinLength != 20 {
		t.Fatalf("Token.MinLength = %d, want 20", cfg.Token.MinLength)
	}
	if cfg.Refresh.Timeout != 9*time.Second {
		t.Fatalf("Refresh.Timeout = %v, want 9s", cfg.Refresh.Timeout)
	}
	if cfg.Refresh.MaxRetries != 3 {
		t.Fatalf("Refresh.MaxRetries = %d, want 3", cfg.Refresh.MaxRetries)
	}
	if cfg.Revalidate.Interval != 5*time.Minute {
		t.Fatalf("Revalidate.Interval = %v, want 5m", cfg.Revalidate.Interval)
	}
	if cfg.Handoff.TicketTTL != 60*time.Second {
		t.Fatalf("Handoff.TicketTTL = %v, want 60s", cfg.Handoff.TicketTTL)
	}
	if cfg.Backend.TokenPath != "/auth/token" || cfg.Backend.RefreshPath != "/auth/refresh" {
		t.Fatalf("backend paths = %q, %q", cfg.Backend.TokenPath, cfg.Backend.RefreshPath)
	}
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Backend.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.Backend.BaseURL = "auth.example.com/api" }},
		{"token path without slash", func(c *Config) { c.Backend.TokenPath = "auth/token" }},
		{"refresh path without slash", func(c *Config) { c.Backend.RefreshPath = "auth/refresh" }},
		{"negative token min length", func(c *Config) { c.Token.MinLength = -1 }},
		{"refresh timeout too short", func(c *Config) { c.Refresh.Timeout = 7 * time.Second }},
		{"refresh timeout too long", func(c *Config) { c.Refresh.Timeout = 11 * time.Second }},
		{"negative retry delay", func(c *Config) { c.Refresh.RetryDelay = -time.Second }},
		{"negative max retries", func(c *Config) { c.Refresh.MaxRetries = -1 }},
		{"zero ticket ttl", func(c *Config) { c.Handoff.TicketTTL = 0 }},
		{"entry route without slash", func(c *Config) { c.Handoff.EntryRoute = "auth/direct" }},
		{"zero login timeout", func(c *Config) { c.Login.Timeout = 0 }},
		{"revalidate enabled without interval", func(c *Config) {
			c.Revalidate.Enabled = true
			c.Revalidate.Interval = 0
		}},
		{"notify enabled without buffer", func(c *Config) {
			c.Notify.Enabled = true
			c.Notify.BufferSize = 0
		}},
		{"identical namespaces", func(c *Config) {
			c.Store.OwnNamespace = "desk"
			c.Store.PeerNamespace = "desk"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
		})
	}
}

func TestBuildRequiresStore(t *testing.T) {
	cfg := validTestConfig()
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("Build must fail without a durable store or redis client")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	b := New().WithConfig(validTestConfig()).WithRedis(rdb)
	ctrl, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer ctrl.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build on the same builder must fail")
	}
}

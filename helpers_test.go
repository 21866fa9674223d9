package sessionkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/questline/sessionkit/handoff"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func signTestToken(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()

	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return signed
}

func adminToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	return signTestToken(t, gojwt.MapClaims{
		"sub":          subject,
		"exp":          exp.Unix(),
		"role":         "admin",
		"is_superuser": false,
		"username":     subject,
	})
}

func memberToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	return signTestToken(t, gojwt.MapClaims{
		"sub":  subject,
		"exp":  exp.Unix(),
		"role": "user",
	})
}

type backendBehavior struct {
	loginStatus   int
	refreshStatus int
	accessToken   string
	refreshToken  string
}

// newTestBackend serves the token issuance and renewal endpoints with
// canned behavior.
func newTestBackend(t *testing.T, b backendBehavior) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		if b.loginStatus != 0 && b.loginStatus != http.StatusOK {
			w.WriteHeader(b.loginStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  b.accessToken,
			"refresh_token": b.refreshToken,
		})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if b.refreshStatus != 0 && b.refreshStatus != http.StatusOK {
			w.WriteHeader(b.refreshStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  b.accessToken,
			"refresh_token": b.refreshToken,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) Config {
	cfg := defaultConfig()
	cfg.Backend.BaseURL = baseURL
	cfg.Refresh.RetryDelay = time.Millisecond
	cfg.Revalidate.Enabled = false
	return cfg
}

func buildTestController(t *testing.T, cfg Config) (*Controller, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	ctrl, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return ctrl, mr, func() {
		ctrl.Close()
		mr.Close()
	}
}

func redisClientFor(t *testing.T, addr string) *redis.Client {
	t.Helper()
	return redis.NewClient(&redis.Options{Addr: addr})
}

func keyFromEntryURL(t *testing.T, entryURL string) string {
	t.Helper()
	key := handoff.KeyFromURL(entryURL)
	if key == "" {
		t.Fatalf("entry URL %q carries no ticket key", entryURL)
	}
	return key
}

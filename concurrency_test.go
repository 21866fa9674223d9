package sessionkit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// Concurrent checks are not deduplicated: each caller runs the full pipeline
// and the last writer wins the state. The test asserts every caller lands on
// the same verdict and the final state is consistent.
func TestCheckAuthConcurrentCallers(t *testing.T) {
	access := memberToken(t, "alice", time.Now().Add(time.Hour))
	srv := newTestBackend(t, backendBehavior{})
	ctrl, _, done := buildTestController(t, testConfig(srv.URL))
	defer done()

	seedOwnPair(t, ctrl, access, "refresh-1")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			results <- ctrl.CheckAuth(context.Background())
		}()
	}
	wg.Wait()
	close(results)

	for ok := range results {
		if !ok {
			t.Fatalf("a concurrent check failed, state: %+v", ctrl.State())
		}
	}

	state := ctrl.State()
	if state.Phase != PhaseAuthenticated || state.Error != "" {
		t.Fatalf("final state = %+v", state)
	}
	if ctrl.Session().User.Subject != "alice" {
		t.Fatalf("final session = %+v", ctrl.Session())
	}
}

// With an expired token every concurrent check triggers its own refresh;
// the persisted pair must still be the renewed one and the state authenticated.
func TestCheckAuthConcurrentRefreshes(t *testing.T) {
	fresh := memberToken(t, "alice", time.Now().Add(time.Hour))
	srv := newTestBackend(t, backendBehavior{
		accessToken:  fresh,
		refreshToken: "refresh-2",
	})
	ctrl, _, done := buildTestController(t, testConfig(srv.URL))
	defer done()

	stale := memberToken(t, "alice", time.Now().Add(-time.Minute))
	seedOwnPair(t, ctrl, stale, "refresh-1")

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ctrl.CheckAuth(context.Background())
		}()
	}
	wg.Wait()

	stored, err := ctrl.own.AccessToken(context.Background())
	if err != nil || stored != fresh {
		t.Fatalf("stored access = %q, %v", stored, err)
	}
	if ctrl.State().Phase != PhaseAuthenticated {
		t.Fatalf("final state = %+v", ctrl.State())
	}
}

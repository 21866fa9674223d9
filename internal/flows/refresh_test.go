package flows

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) error { return nil }

func baseRefreshDeps() RefreshDeps {
	return RefreshDeps{
		ReadRefreshToken: func(context.Context) (string, error) { return "refresh-1", nil },
		Renew: func(context.Context, string) (string, string, error) {
			return "access-2", "refresh-2", nil
		},
		PersistPair: func(context.Context, string, string) error { return nil },
		IsRejected:  func(error) bool { return false },
		Timeout:     50 * time.Millisecond,
		RetryDelay:  time.Millisecond,
		Sleep:       noSleep,
	}
}

func TestRunRefreshSuccessFirstAttempt(t *testing.T) {
	deps := baseRefreshDeps()
	var persistedAccess, persistedRefresh string
	deps.PersistPair = func(_ context.Context, a, r string) error {
		persistedAccess, persistedRefresh = a, r
		return nil
	}

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailureNone {
		t.Fatalf("failure = %v, want none (err: %v)", res.Failure, res.Err)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
	if persistedAccess != "access-2" || persistedRefresh != "refresh-2" {
		t.Fatalf("persisted pair = (%q, %q)", persistedAccess, persistedRefresh)
	}
}

func TestRunRefreshMissingToken(t *testing.T) {
	deps := baseRefreshDeps()
	deps.ReadRefreshToken = func(context.Context) (string, error) { return "", nil }
	deps.Renew = func(context.Context, string) (string, string, error) {
		t.Fatal("renew must not be called without a refresh token")
		return "", "", nil
	}

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailureNoToken {
		t.Fatalf("failure = %v, want no-token", res.Failure)
	}
	if res.Attempts != 0 {
		t.Fatalf("attempts = %d, want 0", res.Attempts)
	}
}

func TestRunRefreshTimeoutRetryBudget(t *testing.T) {
	for _, retries := range []int{0, 1, 3} {
		calls := 0
		deps := baseRefreshDeps()
		deps.Renew = func(ctx context.Context, _ string) (string, string, error) {
			calls++
			return "", "", context.DeadlineExceeded
		}

		res := RunRefresh(context.Background(), retries, deps)
		if res.Failure != RefreshFailureTimeout {
			t.Fatalf("retries=%d: failure = %v, want timeout", retries, res.Failure)
		}
		if want := retries + 1; calls != want || res.Attempts != want {
			t.Fatalf("retries=%d: calls=%d attempts=%d, want %d", retries, calls, res.Attempts, want)
		}
	}
}

func TestRunRefreshEventualSuccessAfterTimeouts(t *testing.T) {
	calls := 0
	deps := baseRefreshDeps()
	deps.Renew = func(ctx context.Context, _ string) (string, string, error) {
		calls++
		if calls < 3 {
			return "", "", context.DeadlineExceeded
		}
		return "access-2", "refresh-2", nil
	}

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailureNone {
		t.Fatalf("failure = %v, want none", res.Failure)
	}
	if res.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", res.Attempts)
	}
}

func TestRunRefreshRejectedIsTerminal(t *testing.T) {
	rejected := errors.New("renewal rejected")
	calls := 0
	deps := baseRefreshDeps()
	deps.Renew = func(context.Context, string) (string, string, error) {
		calls++
		return "", "", rejected
	}
	deps.IsRejected = func(err error) bool { return errors.Is(err, rejected) }

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailureRejected {
		t.Fatalf("failure = %v, want rejected", res.Failure)
	}
	if calls != 1 {
		t.Fatalf("renew called %d times, want 1 (rejection is terminal)", calls)
	}
}

func TestRunRefreshUnreachableIsTerminal(t *testing.T) {
	calls := 0
	deps := baseRefreshDeps()
	deps.Renew = func(context.Context, string) (string, string, error) {
		calls++
		return "", "", errors.New("connection refused")
	}

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailureUnreachable {
		t.Fatalf("failure = %v, want unreachable", res.Failure)
	}
	if calls != 1 {
		t.Fatalf("renew called %d times, want 1", calls)
	}
}

func TestRunRefreshPersistFailure(t *testing.T) {
	deps := baseRefreshDeps()
	deps.PersistPair = func(context.Context, string, string) error {
		return errors.New("store unavailable")
	}

	res := RunRefresh(context.Background(), 3, deps)
	if res.Failure != RefreshFailurePersist {
		t.Fatalf("failure = %v, want persist", res.Failure)
	}
}

func TestRunRefreshAttemptDeadlineEnforced(t *testing.T) {
	deps := baseRefreshDeps()
	deps.Timeout = 20 * time.Millisecond
	deps.Renew = func(ctx context.Context, _ string) (string, string, error) {
		<-ctx.Done()
		return "", "", ctx.Err()
	}

	res := RunRefresh(context.Background(), 0, deps)
	if res.Failure != RefreshFailureTimeout {
		t.Fatalf("failure = %v, want timeout", res.Failure)
	}
}

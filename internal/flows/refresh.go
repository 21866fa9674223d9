package flows

import (
	"context"
	"errors"
	"time"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureNoToken
	RefreshFailureTimeout
	RefreshFailureRejected
	RefreshFailureUnreachable
	RefreshFailurePersist
)

// RefreshResult carries either the renewed token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	Attempts     int
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	ReadRefreshToken func(context.Context) (string, error)
	Renew            func(context.Context, string) (access, refresh string, err error)
	PersistPair      func(context.Context, string, string) error
	IsRejected       func(error) bool
	Timeout          time.Duration
	RetryDelay       time.Duration
	Sleep            func(context.Context, time.Duration) error
	Warn             func(string, ...any)
}

// RunRefresh renews the stored token pair with a bounded retry loop. Each
// attempt races the renewal call against the configured timeout; only a
// timeout earns another attempt, so a budget of retries makes at most
// retries+1 network attempts. A rejection is terminal: the credentials are
// presumed invalid.
func RunRefresh(ctx context.Context, retries int, deps RefreshDeps) RefreshResult {
	refreshToken, err := deps.ReadRefreshToken(ctx)
	if err != nil || refreshToken == "" {
		return RefreshResult{Failure: RefreshFailureNoToken, Err: err}
	}
	if retries < 0 {
		retries = 0
	}

	result := RefreshResult{}
	for attempt := 0; attempt <= retries; attempt++ {
		result.Attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, deps.Timeout)
		access, refresh, err := deps.Renew(attemptCtx, refreshToken)
		cancel()

		if err == nil {
			if perr := deps.PersistPair(ctx, access, refresh); perr != nil {
				result.Failure = RefreshFailurePersist
				result.Err = perr
				return result
			}
			result.Failure = RefreshFailureNone
			result.AccessToken = access
			result.RefreshToken = refresh
			return result
		}

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			if attempt == retries {
				result.Failure = RefreshFailureTimeout
				result.Err = err
				return result
			}
			if deps.Warn != nil {
				deps.Warn("session refresh attempt timed out, retrying")
			}
			if deps.Sleep != nil {
				if serr := deps.Sleep(ctx, deps.RetryDelay); serr != nil {
					result.Failure = RefreshFailureTimeout
					result.Err = serr
					return result
				}
			}
		case deps.IsRejected != nil && deps.IsRejected(err):
			result.Failure = RefreshFailureRejected
			result.Err = err
			return result
		default:
			result.Failure = RefreshFailureUnreachable
			result.Err = err
			return result
		}
	}

	result.Failure = RefreshFailureTimeout
	result.Err = context.DeadlineExceeded
	return result
}

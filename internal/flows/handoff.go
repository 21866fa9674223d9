package flows

import (
	"context"
	"errors"
)

// HandoffFailureKind classifies handoff completion failures.
type HandoffFailureKind int

const (
	HandoffFailureNone HandoffFailureKind = iota
	HandoffFailureNotFound
	HandoffFailureExpired
	HandoffFailureCorrupt
	HandoffFailureTokenInvalid
	HandoffFailurePrivilege
	HandoffFailurePersist
)

// HandoffResult reports the outcome of redeeming a handoff ticket.
type HandoffResult struct {
	Failure      HandoffFailureKind
	Err          error
	Subject      string
	AccessToken  string
	RefreshToken string
}

// HandoffDeps captures handoff flow dependencies. The sentinel errors let
// the flow classify store failures without importing the ticket package.
type HandoffDeps struct {
	Consume      func(context.Context, string) (access, refresh string, err error)
	Decode       func(string) DecodeOutcome
	PersistPair  func(context.Context, string, string) error
	ClearPending func(context.Context) error
	ErrNotFound  error
	ErrExpired   error
	ErrCorrupt   error
	RequireAdmin bool
}

// RunHandoff redeems a single-use ticket and installs the enclosed token
// pair. Consumption happens first, so a ticket is burned even when the
// enclosed tokens fail validation. The pending marker is cleared best
// effort only on success.
func RunHandoff(ctx context.Context, key string, deps HandoffDeps) HandoffResult {
	access, refresh, err := deps.Consume(ctx, key)
	if err != nil {
		switch {
		case deps.ErrNotFound != nil && errors.Is(err, deps.ErrNotFound):
			return HandoffResult{Failure: HandoffFailureNotFound, Err: err}
		case deps.ErrExpired != nil && errors.Is(err, deps.ErrExpired):
			return HandoffResult{Failure: HandoffFailureExpired, Err: err}
		default:
			return HandoffResult{Failure: HandoffFailureCorrupt, Err: err}
		}
	}

	outcome := deps.Decode(access)
	if !outcome.Valid {
		return HandoffResult{Failure: HandoffFailureTokenInvalid, Err: outcome.Err}
	}
	if deps.RequireAdmin && !outcome.Eligible {
		return HandoffResult{Failure: HandoffFailurePrivilege, Subject: outcome.Subject}
	}

	if err := deps.PersistPair(ctx, access, refresh); err != nil {
		return HandoffResult{Failure: HandoffFailurePersist, Err: err}
	}
	if deps.ClearPending != nil {
		_ = deps.ClearPending(ctx)
	}
	return HandoffResult{
		Failure:      HandoffFailureNone,
		Subject:      outcome.Subject,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

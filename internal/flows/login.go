package flows

import "context"

// LoginFailureKind classifies login flow failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureRejected
	LoginFailureUnreachable
	LoginFailureTokenInvalid
	LoginFailurePrivilege
	LoginFailurePersist
)

// LoginResult carries the issued token pair or failure metadata.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	Subject      string
	AccessToken  string
	RefreshToken string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Issue        func(context.Context, string, string) (access, refresh string, err error)
	Decode       func(string) DecodeOutcome
	PersistPair  func(context.Context, string, string) error
	IsRejected   func(error) bool
	RequireAdmin bool
}

// RunLogin exchanges credentials for a token pair and persists it. Nothing
// is stored until the issued access token decodes cleanly and passes the
// privilege gate, so a failed login never leaves partial credentials behind.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) LoginResult {
	access, refresh, err := deps.Issue(ctx, username, password)
	if err != nil {
		if deps.IsRejected != nil && deps.IsRejected(err) {
			return LoginResult{Failure: LoginFailureRejected, Err: err}
		}
		return LoginResult{Failure: LoginFailureUnreachable, Err: err}
	}

	outcome := deps.Decode(access)
	if !outcome.Valid {
		return LoginResult{Failure: LoginFailureTokenInvalid, Err: outcome.Err}
	}
	if deps.RequireAdmin && !outcome.Eligible {
		return LoginResult{Failure: LoginFailurePrivilege, Subject: outcome.Subject}
	}

	if err := deps.PersistPair(ctx, access, refresh); err != nil {
		return LoginResult{Failure: LoginFailurePersist, Err: err}
	}
	return LoginResult{
		Failure:      LoginFailureNone,
		Subject:      outcome.Subject,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

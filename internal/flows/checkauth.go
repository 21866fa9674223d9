package flows

import "context"

// CheckFailureKind classifies check failures for root-level mapping.
type CheckFailureKind int

const (
	CheckFailureNone CheckFailureKind = iota
	CheckFailureNoToken
	CheckFailureRefresh
	CheckFailurePrivilege
)

// DecodeOutcome is the token decode verdict the check flow acts on. Err
// carries the caller's classification of the decode defect; the flow only
// threads it through, the caller owns the claim semantics.
type DecodeOutcome struct {
	Valid    bool
	Eligible bool
	Subject  string
	Err      error
}

// CheckResult reports the authorization verdict for a stored session.
type CheckResult struct {
	Failure       CheckFailureKind
	Err           error
	Subject       string
	PeerImported  bool
	Refreshed     bool
	RefreshResult RefreshResult
}

// CheckDeps captures check flow dependencies.
type CheckDeps struct {
	ReadAccess     func(context.Context) (string, error)
	ReadPeerPair   func(context.Context) (access, refresh string, err error)
	ImportPeerPair func(context.Context, string, string) error
	Decode         func(string) DecodeOutcome
	Refresh        func(context.Context) RefreshResult
	ClearTokens    func(context.Context) error
	RequireAdmin   bool
}

// RunCheckAuth determines whether the stored credentials identify an
// authorized session. A valid access token short-circuits to the privilege
// gate; an invalid or expired one goes through a refresh; a missing one is
// first sourced from the peer namespace before giving up. Refresh failures
// and privilege rejections both wipe the stored tokens, so the next check
// starts clean instead of re-spending the retry budget on a pair the
// backend already rejected.
func RunCheckAuth(ctx context.Context, deps CheckDeps) CheckResult {
	result := CheckResult{}

	access, _ := deps.ReadAccess(ctx)
	if access == "" {
		peerAccess, peerRefresh, err := deps.ReadPeerPair(ctx)
		if err != nil || peerAccess == "" || peerRefresh == "" {
			result.Failure = CheckFailureNoToken
			return result
		}
		if err := deps.ImportPeerPair(ctx, peerAccess, peerRefresh); err != nil {
			result.Failure = CheckFailureNoToken
			result.Err = err
			return result
		}
		result.PeerImported = true
		access = peerAccess
	}

	outcome := deps.Decode(access)
	if !outcome.Valid {
		refreshed := deps.Refresh(ctx)
		result.Refreshed = true
		result.RefreshResult = refreshed
		if refreshed.Failure != RefreshFailureNone {
			_ = deps.ClearTokens(ctx)
			result.Failure = CheckFailureRefresh
			result.Err = refreshed.Err
			return result
		}
		outcome = deps.Decode(refreshed.AccessToken)
		if !outcome.Valid {
			_ = deps.ClearTokens(ctx)
			result.Failure = CheckFailureRefresh
			result.Err = outcome.Err
			return result
		}
	}

	if deps.RequireAdmin && !outcome.Eligible {
		if err := deps.ClearTokens(ctx); err != nil {
			result.Err = err
		}
		result.Failure = CheckFailurePrivilege
		result.Subject = outcome.Subject
		return result
	}

	result.Failure = CheckFailureNone
	result.Subject = outcome.Subject
	return result
}

package sessionkit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/questline/sessionkit/credstore"
	"github.com/questline/sessionkit/handoff"
	"github.com/questline/sessionkit/internal/flows"
	"github.com/questline/sessionkit/internal/notify"
	"github.com/questline/sessionkit/internal/transport"
	"github.com/questline/sessionkit/token"
	"github.com/rs/zerolog"
)

// Controller defines a public type used by sessionkit APIs.
//
// Controller instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Controller struct {
	cfg    Config
	codec  *token.Codec
	client *transport.Client
	own    *credstore.Credentials
	peer   *credstore.Credentials
	broker *handoff.Broker

	dispatcher *notify.Dispatcher
	metrics    *Metrics
	logger     zerolog.Logger

	mu      sync.Mutex
	state   AuthState
	session Session

	handoffOnce handoff.Latch

	revalStop chan struct{}
	revalWG   sync.WaitGroup
	closeOnce sync.Once
}

/*
====================================
STATE ACCESSORS
====================================
*/

// State describes the state operation and its observable behavior.
//
// State may return an error when input validation, dependency calls, or security checks fail.
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) State() AuthState {
	if c == nil {
		return AuthState{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session describes the session operation and its observable behavior.
//
// Session may return an error when input validation, dependency calls, or security checks fail.
// Session does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) Session() Session {
	if c == nil {
		return Session{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// NotifyDropped describes the notifydropped operation and its observable behavior.
//
// NotifyDropped may return an error when input validation, dependency calls, or security checks fail.
// NotifyDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) NotifyDropped() uint64 {
	if c == nil || c.dispatcher == nil {
		return 0
	}
	return c.dispatcher.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		if c.revalStop != nil {
			close(c.revalStop)
			c.revalWG.Wait()
		}
		if c.dispatcher != nil {
			c.dispatcher.Close()
		}
	})
}

func (c *Controller) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

/*
====================================
TRANSITIONS
====================================
*/

// transition updates state and session under the lock and emits a
// notification. Concurrent checks may interleave; the last writer wins.
func (c *Controller) transition(to Phase, errMsg, reason string, session Session) {
	c.mu.Lock()
	from := c.state.Phase
	c.state = AuthState{
		Phase:         to,
		Error:         errMsg,
		LastCheckedAt: time.Now(),
	}
	c.session = session
	c.mu.Unlock()

	c.logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("reason", reason).
		Msg("session state transition")

	if c.dispatcher != nil {
		c.dispatcher.Emit(notify.Event{
			Timestamp: time.Now(),
			From:      from.String(),
			To:        to.String(),
			Reason:    reason,
			Subject:   session.User.Subject,
			Error:     errMsg,
		})
	}
}

func (c *Controller) beginValidating(reason string) {
	c.transition(PhaseValidating, "", reason, Session{})
}

func userFromClaims(claims *token.Claims) User {
	return User{
		Subject:   claims.Subject,
		Username:  claims.Username,
		FullName:  claims.FullName,
		Email:     claims.Email,
		Role:      claims.Role,
		Superuser: claims.IsSuperuser,
	}
}

func (c *Controller) sessionFromClaims(claims *token.Claims) Session {
	return Session{
		User:            userFromClaims(claims),
		IsAuthenticated: true,
		IsAdmin:         claims.AdminEligible(),
	}
}

/*
====================================
FLOW WIRING
====================================
*/

func (c *Controller) decodeOutcome(raw string) flows.DecodeOutcome {
	res := c.codec.Decode(raw)
	if !res.Valid() {
		return flows.DecodeOutcome{Err: tokenError(res.Reason)}
	}
	return flows.DecodeOutcome{
		Valid:    true,
		Eligible: res.Claims.AdminEligible(),
		Subject:  res.Claims.Subject,
	}
}

// tokenError maps a decode defect to its user-visible sentinel.
func tokenError(reason token.Reason) error {
	switch reason {
	case token.ReasonNoExpiry:
		return ErrTokenMissingExpiry
	case token.ReasonExpired:
		return ErrTokenExpired
	case token.ReasonNoSubject:
		return ErrTokenMissingSubject
	default:
		return ErrTokenMalformed
	}
}

func (c *Controller) refreshDeps() flows.RefreshDeps {
	return flows.RefreshDeps{
		ReadRefreshToken: func(ctx context.Context) (string, error) {
			tok, err := c.own.RefreshToken(ctx)
			if errors.Is(err, credstore.ErrNotFound) {
				return "", nil
			}
			return tok, err
		},
		Renew: func(ctx context.Context, refreshToken string) (string, string, error) {
			pair, err := c.client.Renew(ctx, refreshToken)
			if err != nil {
				return "", "", err
			}
			return pair.AccessToken, pair.RefreshToken, nil
		},
		PersistPair: c.own.SetPair,
		IsRejected: func(err error) bool {
			return errors.Is(err, transport.ErrRejected)
		},
		Timeout:    c.cfg.Refresh.Timeout,
		RetryDelay: c.cfg.Refresh.RetryDelay,
		Sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		Warn: func(msg string, args ...any) {
			c.logger.Warn().Msg(msg)
		},
	}
}

func (c *Controller) runRefresh(ctx context.Context) flows.RefreshResult {
	res := flows.RunRefresh(ctx, c.cfg.Refresh.MaxRetries, c.refreshDeps())
	switch res.Failure {
	case flows.RefreshFailureNone:
		c.metricInc(MetricRefreshSuccess)
	case flows.RefreshFailureTimeout:
		c.metricInc(MetricRefreshTimeout)
	case flows.RefreshFailureRejected:
		c.metricInc(MetricRefreshRejected)
	case flows.RefreshFailureUnreachable:
		c.metricInc(MetricRefreshUnreachable)
	}
	return res
}

func (c *Controller) checkDeps() flows.CheckDeps {
	return flows.CheckDeps{
		ReadAccess: func(ctx context.Context) (string, error) {
			tok, err := c.own.AccessToken(ctx)
			if errors.Is(err, credstore.ErrNotFound) {
				return "", nil
			}
			return tok, err
		},
		ReadPeerPair: func(ctx context.Context) (string, string, error) {
			if c.peer == nil {
				return "", "", nil
			}
			access, refresh, err := c.peer.Pair(ctx)
			if errors.Is(err, credstore.ErrNotFound) {
				return "", "", nil
			}
			return access, refresh, err
		},
		ImportPeerPair: c.own.SetPair,
		Decode:         c.decodeOutcome,
		Refresh:        c.runRefresh,
		ClearTokens:    c.own.Clear,
		RequireAdmin:   c.cfg.Guard.RequireAdmin,
	}
}

/*
====================================
CHECK AUTH
====================================
*/

// CheckAuth describes the checkauth operation and its observable behavior.
//
// CheckAuth may return an error when input validation, dependency calls, or security checks fail.
// CheckAuth does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) CheckAuth(ctx context.Context) bool {
	if c == nil {
		return false
	}
	started := time.Now()
	c.beginValidating("check_auth")

	res := flows.RunCheckAuth(ctx, c.checkDeps())
	if res.PeerImported {
		c.metricInc(MetricPeerImport)
	}
	if c.metrics.LatencyEnabled() {
		defer func() { c.metrics.Observe(MetricCheckAuthLatency, time.Since(started)) }()
	}

	switch res.Failure {
	case flows.CheckFailureNone:
		access, err := c.own.AccessToken(ctx)
		if err != nil {
			c.metricInc(MetricCheckAuthFailure)
			c.transition(PhaseUnauthenticated, ErrStoreUnavailable.Error(), "check_auth", Session{})
			return false
		}
		decoded := c.codec.Decode(access)
		if !decoded.Valid() {
			c.metricInc(MetricCheckAuthFailure)
			c.transition(PhaseUnauthenticated, tokenError(decoded.Reason).Error(), "check_auth", Session{})
			return false
		}
		c.metricInc(MetricCheckAuthSuccess)
		c.transition(PhaseAuthenticated, "", "check_auth", c.sessionFromClaims(decoded.Claims))
		return true

	case flows.CheckFailureNoToken:
		c.metricInc(MetricCheckAuthFailure)
		c.transition(PhaseUnauthenticated, "", "check_auth", Session{})
		return false

	case flows.CheckFailurePrivilege:
		c.metricInc(MetricCheckAuthFailure)
		c.transition(PhaseUnauthenticated, ErrInsufficientPrivilege.Error(), "check_auth", Session{})
		return false

	default:
		// Refresh ran and failed, or it succeeded and handed back a token
		// that still does not decode.
		errMsg := c.refreshErrorString(res.RefreshResult)
		if res.RefreshResult.Failure == flows.RefreshFailureNone && res.Err != nil {
			errMsg = res.Err.Error()
		}
		c.metricInc(MetricCheckAuthFailure)
		c.transition(PhaseUnauthenticated, errMsg, "check_auth", Session{})
		return false
	}
}

func (c *Controller) refreshErrorString(res flows.RefreshResult) string {
	switch res.Failure {
	case flows.RefreshFailureNoToken:
		return ErrRefreshMissing.Error()
	case flows.RefreshFailureTimeout:
		return ErrRefreshTimeout.Error()
	case flows.RefreshFailureRejected:
		return ErrRefreshRejected.Error()
	case flows.RefreshFailurePersist:
		return ErrStoreUnavailable.Error()
	default:
		return ErrNetworkUnreachable.Error()
	}
}

/*
====================================
LOGIN / LOGOUT
====================================
*/

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) Login(ctx context.Context, username, password string) bool {
	if c == nil {
		return false
	}
	c.beginValidating("login")

	loginCtx, cancel := context.WithTimeout(ctx, c.cfg.Login.Timeout)
	defer cancel()

	res := flows.RunLogin(loginCtx, username, password, flows.LoginDeps{
		Issue: func(ctx context.Context, u, p string) (string, string, error) {
			pair, err := c.client.IssueToken(ctx, u, p)
			if err != nil {
				return "", "", err
			}
			return pair.AccessToken, pair.RefreshToken, nil
		},
		Decode:      c.decodeOutcome,
		PersistPair: c.own.SetPair,
		IsRejected: func(err error) bool {
			return errors.Is(err, transport.ErrRejected)
		},
		RequireAdmin: c.cfg.Guard.RequireAdmin,
	})

	switch res.Failure {
	case flows.LoginFailureNone:
		decoded := c.codec.Decode(res.AccessToken)
		if !decoded.Valid() {
			c.metricInc(MetricLoginFailure)
			c.transition(PhaseUnauthenticated, tokenError(decoded.Reason).Error(), "login", Session{})
			return false
		}
		c.metricInc(MetricLoginSuccess)
		c.transition(PhaseAuthenticated, "", "login", c.sessionFromClaims(decoded.Claims))
		return true

	case flows.LoginFailureRejected:
		c.metricInc(MetricLoginFailure)
		c.transition(PhaseUnauthenticated, ErrLoginRejected.Error(), "login", Session{})
		return false

	case flows.LoginFailurePrivilege:
		c.metricInc(MetricLoginPrivilegeDenied)
		c.transition(PhaseUnauthenticated, ErrInsufficientPrivilege.Error(), "login", Session{})
		return false

	case flows.LoginFailureTokenInvalid:
		errMsg := ErrTokenMalformed.Error()
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		c.metricInc(MetricLoginFailure)
		c.transition(PhaseUnauthenticated, errMsg, "login", Session{})
		return false

	case flows.LoginFailurePersist:
		c.metricInc(MetricLoginFailure)
		c.transition(PhaseUnauthenticated, ErrStoreUnavailable.Error(), "login", Session{})
		return false

	default:
		c.metricInc(MetricLoginFailure)
		c.transition(PhaseUnauthenticated, ErrNetworkUnreachable.Error(), "login", Session{})
		return false
	}
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) Logout(ctx context.Context) bool {
	if c == nil {
		return false
	}

	errMsg := ""
	if err := c.own.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("credential wipe failed during logout")
		errMsg = ErrStoreUnavailable.Error()
	}
	c.metricInc(MetricLogout)
	c.transition(PhaseUnauthenticated, errMsg, "logout", Session{})
	return errMsg == ""
}

/*
====================================
HANDOFF
====================================
*/

// BeginHandoff describes the beginhandoff operation and its observable behavior.
//
// BeginHandoff may return an error when input validation, dependency calls, or security checks fail.
// BeginHandoff does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) BeginHandoff(ctx context.Context) (string, error) {
	if c == nil {
		return "", ErrControllerNotReady
	}

	access, refresh, err := c.own.Pair(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return "", ErrRefreshMissing
		}
		return "", err
	}

	_, entryURL, err := c.broker.CreateTicket(ctx, access, refresh)
	if err != nil {
		return "", err
	}
	if err := c.own.SetHandoffPending(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("handoff pending marker write failed")
	}
	c.metricInc(MetricTicketCreated)
	return entryURL, nil
}

// CompleteHandoff describes the completehandoff operation and its observable behavior.
//
// CompleteHandoff may return an error when input validation, dependency calls, or security checks fail.
// CompleteHandoff does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) CompleteHandoff(ctx context.Context, key string) bool {
	if c == nil {
		return false
	}
	if !c.handoffOnce.TryAcquire() {
		c.mu.Lock()
		authenticated := c.state.Phase == PhaseAuthenticated
		c.mu.Unlock()
		return authenticated
	}

	c.beginValidating("handoff")

	res := flows.RunHandoff(ctx, key, flows.HandoffDeps{
		Consume: func(ctx context.Context, k string) (string, string, error) {
			ticket, err := c.broker.Consume(ctx, k)
			if err != nil {
				return "", "", err
			}
			return ticket.AccessToken, ticket.RefreshToken, nil
		},
		Decode:       c.decodeOutcome,
		PersistPair:  c.own.SetPair,
		ClearPending: c.own.ClearHandoffPending,
		ErrNotFound:  handoff.ErrTicketNotFound,
		ErrExpired:   handoff.ErrTicketExpired,
		ErrCorrupt:   handoff.ErrTicketCorrupt,
		RequireAdmin: c.cfg.Handoff.RequireAdmin || c.cfg.Guard.RequireAdmin,
	})

	switch res.Failure {
	case flows.HandoffFailureNone:
		decoded := c.codec.Decode(res.AccessToken)
		if !decoded.Valid() {
			c.transition(PhaseUnauthenticated, tokenError(decoded.Reason).Error(), "handoff", Session{})
			return false
		}
		c.metricInc(MetricTicketConsumed)
		c.transition(PhaseAuthenticated, "", "handoff", c.sessionFromClaims(decoded.Claims))
		return true

	case flows.HandoffFailureNotFound:
		c.metricInc(MetricTicketNotFound)
		c.transition(PhaseUnauthenticated, ErrTicketNotFound.Error(), "handoff", Session{})
		return false

	case flows.HandoffFailureExpired:
		c.metricInc(MetricTicketExpired)
		c.transition(PhaseUnauthenticated, ErrTicketExpired.Error(), "handoff", Session{})
		return false

	case flows.HandoffFailurePrivilege:
		c.metricInc(MetricTicketPrivilegeDenied)
		c.transition(PhaseUnauthenticated, ErrInsufficientPrivilege.Error(), "handoff", Session{})
		return false

	case flows.HandoffFailureTokenInvalid:
		errMsg := ErrTokenMalformed.Error()
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		c.transition(PhaseUnauthenticated, errMsg, "handoff", Session{})
		return false

	case flows.HandoffFailurePersist:
		c.transition(PhaseUnauthenticated, ErrStoreUnavailable.Error(), "handoff", Session{})
		return false

	default:
		c.transition(PhaseUnauthenticated, ErrTicketCorrupt.Error(), "handoff", Session{})
		return false
	}
}

// HandoffFired describes the handofffired operation and its observable behavior.
//
// HandoffFired may return an error when input validation, dependency calls, or security checks fail.
// HandoffFired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) HandoffFired() bool {
	return c != nil && c.handoffOnce.Fired()
}

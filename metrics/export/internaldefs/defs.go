package internaldefs

import (
	sessionkit "github.com/questline/sessionkit"
)

// CounterDef defines a public type used by sessionkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessionkit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session controller.
var CounterDefs = []CounterDef{
	{ID: sessionkit.MetricCheckAuthSuccess, Name: "sessionkit_check_auth_success_total", Help: "Authorization checks resolving authenticated."},
	{ID: sessionkit.MetricCheckAuthFailure, Name: "sessionkit_check_auth_failure_total", Help: "Authorization checks resolving unauthenticated."},
	{ID: sessionkit.MetricPeerImport, Name: "sessionkit_peer_import_total", Help: "Credential pairs imported from the peer namespace."},
	{ID: sessionkit.MetricLoginSuccess, Name: "sessionkit_login_success_total", Help: "Successful login attempts."},
	{ID: sessionkit.MetricLoginFailure, Name: "sessionkit_login_failure_total", Help: "Failed login attempts."},
	{ID: sessionkit.MetricLoginPrivilegeDenied, Name: "sessionkit_login_privilege_denied_total", Help: "Logins rejected by the privilege gate."},
	{ID: sessionkit.MetricRefreshSuccess, Name: "sessionkit_refresh_success_total", Help: "Successful refresh operations."},
	{ID: sessionkit.MetricRefreshTimeout, Name: "sessionkit_refresh_timeout_total", Help: "Refresh operations abandoned after the retry budget."},
	{ID: sessionkit.MetricRefreshRejected, Name: "sessionkit_refresh_rejected_total", Help: "Refresh operations rejected by the backend."},
	{ID: sessionkit.MetricRefreshUnreachable, Name: "sessionkit_refresh_unreachable_total", Help: "Refresh operations failing on transport errors."},
	{ID: sessionkit.MetricLogout, Name: "sessionkit_logout_total", Help: "Logout operations."},
	{ID: sessionkit.MetricTicketCreated, Name: "sessionkit_ticket_created_total", Help: "Handoff tickets created."},
	{ID: sessionkit.MetricTicketConsumed, Name: "sessionkit_ticket_consumed_total", Help: "Handoff tickets consumed successfully."},
	{ID: sessionkit.MetricTicketNotFound, Name: "sessionkit_ticket_not_found_total", Help: "Handoff completions against unknown or spent tickets."},
	{ID: sessionkit.MetricTicketExpired, Name: "sessionkit_ticket_expired_total", Help: "Handoff completions against expired tickets."},
	{ID: sessionkit.MetricTicketPrivilegeDenied, Name: "sessionkit_ticket_privilege_denied_total", Help: "Handoff completions rejected by the privilege gate."},
	{ID: sessionkit.MetricRevalidateTick, Name: "sessionkit_revalidate_tick_total", Help: "Periodic revalidation ticks."},
}

// HistogramDefs is an exported constant or variable used by the session controller.
var HistogramDefs = []HistogramDef{
	{ID: sessionkit.MetricCheckAuthLatency, Name: "sessionkit_check_auth_latency_seconds", Help: "CheckAuth latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session controller.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session controller.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

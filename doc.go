// Package sessionkit manages the client-side lifecycle of a token-based session:
// credential storage, expiry-driven refresh with a bounded retry budget, single-use
// session handoff between namespaces, and periodic revalidation.
//
// The package is designed for concurrent workloads: Controller methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// sessionkit is the public surface. It exposes [Controller], [Builder], [Config], and
// value types (AuthState, Session, MetricsSnapshot, etc.). All internal coordination —
// flow orchestration, backend transport, state notification dispatch — lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Verify token signatures. Tokens are decoded for their claims only; the backend
//     re-verifies signature and privilege on every request it serves.
//   - Expose store clients, transport details, or encoding internals in its public API.
//   - Import any sub-package that re-imports sessionkit (no import cycles).
//
// # Behavioral contract
//
// CheckAuth, Login, Logout, and CompleteHandoff report their verdict as a boolean and
// record failure detail in [AuthState]. They never return errors to the caller: an
// unreachable backend or a rejected refresh is an unauthenticated outcome, not a panic
// or an error path the caller must branch on.
package sessionkit

// Package transport implements the HTTP client for the authentication backend:
// credential-based token issuance and refresh-token renewal.
//
// # Architecture boundaries
//
// This package owns request encoding, response decoding, and error
// classification ([ErrRejected] for non-2xx responses). It does NOT decide
// when to call the backend or how to react to failures — retry budgets,
// timeouts beyond the per-call context, and state transitions belong to the
// flow layer and the Controller.
//
// # What this package must NOT do
//
//   - Store or cache tokens.
//   - Retry requests on its own.
//   - Import sessionkit or any sibling internal package.
package transport

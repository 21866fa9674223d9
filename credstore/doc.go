// Package credstore persists bearer credentials across two storage scopes: a
// durable, per-deployment key-value store that survives restarts, and an
// ephemeral, TTL-bounded store used for short-lived handoff payloads.
//
// # Architecture boundaries
//
// credstore owns key layout and raw persistence only. It performs no token
// validation — that is the token package's job — and no flow decisions.
// Namespacing lets two application identities keep independent token pairs in
// the same durable store; the empty namespace addresses the legacy shared pair.
//
// # What this package must NOT do
//
//   - Decode or inspect token contents.
//   - Import sessionkit, token, or internal packages.
//   - Retry or mask store failures; callers classify them.
package credstore

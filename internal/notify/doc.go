// Package notify implements async delivery of session state transition events.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event] — structured transition record with timestamp, from/to phase, reason.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which
// transitions to emit — that responsibility belongs to the Controller.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on session state.
//   - Import sessionkit or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package notify

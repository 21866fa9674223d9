package sessionkit

import (
	"io"
	"time"

	internalnotify "github.com/questline/sessionkit/internal/notify"
)

// Phase represents the lifecycle state of the session controller.
type Phase uint8

const (
	// PhaseUninitialized is an exported constant or variable used by the session controller.
	PhaseUninitialized Phase = iota
	// PhaseValidating is an exported constant or variable used by the session controller.
	PhaseValidating
	// PhaseAuthenticated is an exported constant or variable used by the session controller.
	PhaseAuthenticated
	// PhaseUnauthenticated is an exported constant or variable used by the session controller.
	PhaseUnauthenticated
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseValidating:
		return "validating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// User defines a public type used by sessionkit APIs.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	Subject   string
	Username  string
	FullName  string
	Email     string
	Role      string
	Superuser bool
}

// Session defines a public type used by sessionkit APIs.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	User            User
	IsAuthenticated bool
	IsAdmin         bool
}

// AuthState defines a public type used by sessionkit APIs.
//
// AuthState instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthState struct {
	Phase         Phase
	Error         string
	LastCheckedAt time.Time
}

// StateEvent is the transition record delivered to a configured StateSink.
type StateEvent = internalnotify.Event

// StateSink receives session state transition events.
type StateSink = internalnotify.Sink

// NoOpSink drops state transition events.
type NoOpSink = internalnotify.NoOpSink

// ChannelSink buffers state transition events in a channel.
type ChannelSink = internalnotify.ChannelSink

// JSONWriterSink writes one state transition event per line as JSON.
type JSONWriterSink = internalnotify.JSONWriterSink

// NewChannelSink describes the newchannelsink operation and its observable behavior.
//
// NewChannelSink may return an error when input validation, dependency calls, or security checks fail.
// NewChannelSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewChannelSink(buffer int) *ChannelSink {
	return internalnotify.NewChannelSink(buffer)
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
//
// NewJSONWriterSink may return an error when input validation, dependency calls, or security checks fail.
// NewJSONWriterSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalnotify.NewJSONWriterSink(w)
}

package sessionkit

import "errors"

var (
	// ErrTokenMalformed is an exported constant or variable used by the session controller.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenMissingExpiry is an exported constant or variable used by the session controller.
	ErrTokenMissingExpiry = errors.New("token missing expiry claim")
	// ErrTokenMissingSubject is an exported constant or variable used by the session controller.
	ErrTokenMissingSubject = errors.New("token missing subject claim")
	// ErrTokenExpired is an exported constant or variable used by the session controller.
	ErrTokenExpired = errors.New("token expired")
	// ErrRefreshMissing is an exported constant or variable used by the session controller.
	ErrRefreshMissing = errors.New("refresh token missing")
	// ErrRefreshTimeout is an exported constant or variable used by the session controller.
	ErrRefreshTimeout = errors.New("session refresh timed out")
	// ErrRefreshRejected is an exported constant or variable used by the session controller.
	ErrRefreshRejected = errors.New("session refresh rejected")
	// ErrNetworkUnreachable is an exported constant or variable used by the session controller.
	ErrNetworkUnreachable = errors.New("authentication backend unreachable")
	// ErrStoreUnavailable is an exported constant or variable used by the session controller.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrTicketNotFound is an exported constant or variable used by the session controller.
	ErrTicketNotFound = errors.New("handoff ticket not found")
	// ErrTicketExpired is an exported constant or variable used by the session controller.
	ErrTicketExpired = errors.New("handoff ticket expired")
	// ErrTicketCorrupt is an exported constant or variable used by the session controller.
	ErrTicketCorrupt = errors.New("handoff ticket corrupt")
	// ErrInsufficientPrivilege is an exported constant or variable used by the session controller.
	ErrInsufficientPrivilege = errors.New("administrator privileges required")
	// ErrLoginRejected is an exported constant or variable used by the session controller.
	ErrLoginRejected = errors.New("invalid credentials")
	// ErrControllerNotReady is an exported constant or variable used by the session controller.
	ErrControllerNotReady = errors.New("controller not initialized")
)

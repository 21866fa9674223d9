package credstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested field or key holds no value.
var ErrNotFound = errors.New("credential not found")

// ErrUnavailable wraps transport-level failures of the backing store.
var ErrUnavailable = errors.New("credential store unavailable")

// Field names used inside a credential namespace.
const (
	// FieldAccessToken holds the short-lived bearer token.
	FieldAccessToken = "access_token"
	// FieldRefreshToken holds the long-lived renewal token.
	FieldRefreshToken = "refresh_token"
	// FieldHandoffPending marks an in-progress cross-application handoff.
	FieldHandoffPending = "handoff_pending"
)

// Durable is the persistent, restart-surviving key-value scope.
//
// Durable instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Durable interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Ephemeral is the TTL-bounded scope for one-time payloads.
//
// Ephemeral instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Ephemeral interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// GetDel atomically reads and removes a key, enforcing single use.
	GetDel(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Credentials is a namespaced view over a Durable store. Keys follow the
// layout <namespace>_<field>; the empty namespace addresses bare field names,
// which is the legacy pair shared between both applications.
//
// Credentials instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Credentials struct {
	store     Durable
	namespace string
}

// NewCredentials describes the newcredentials operation and its observable behavior.
//
// NewCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCredentials(store Durable, namespace string) *Credentials {
	return &Credentials{store: store, namespace: namespace}
}

// Namespace describes the namespace operation and its observable behavior.
//
// Namespace does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) Namespace() string {
	return c.namespace
}

func (c *Credentials) key(field string) string {
	if c.namespace == "" {
		return field
	}
	return c.namespace + "_" + field
}

// AccessToken describes the accesstoken operation and its observable behavior.
//
// AccessToken may return an error when input validation, dependency calls, or security checks fail.
// AccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	return c.store.Get(ctx, c.key(FieldAccessToken))
}

// RefreshToken describes the refreshtoken operation and its observable behavior.
//
// RefreshToken may return an error when input validation, dependency calls, or security checks fail.
// RefreshToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) RefreshToken(ctx context.Context) (string, error) {
	return c.store.Get(ctx, c.key(FieldRefreshToken))
}

// Pair returns both tokens, or ErrNotFound when either is absent.
//
// Pair may return an error when input validation, dependency calls, or security checks fail.
// Pair does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) Pair(ctx context.Context) (access, refresh string, err error) {
	access, err = c.AccessToken(ctx)
	if err != nil {
		return "", "", err
	}
	refresh, err = c.RefreshToken(ctx)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SetPair persists both tokens of a namespace.
//
// SetPair may return an error when input validation, dependency calls, or security checks fail.
// SetPair does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) SetPair(ctx context.Context, access, refresh string) error {
	if err := c.store.Set(ctx, c.key(FieldAccessToken), access); err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(FieldRefreshToken), refresh)
}

// Clear removes every field of the namespace, including the handoff flag.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) Clear(ctx context.Context) error {
	return c.store.Delete(ctx,
		c.key(FieldAccessToken),
		c.key(FieldRefreshToken),
		c.key(FieldHandoffPending),
	)
}

// SetHandoffPending describes the sethandoffpending operation and its observable behavior.
//
// SetHandoffPending may return an error when input validation, dependency calls, or security checks fail.
// SetHandoffPending does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) SetHandoffPending(ctx context.Context) error {
	return c.store.Set(ctx, c.key(FieldHandoffPending), "1")
}

// HandoffPending describes the handoffpending operation and its observable behavior.
//
// HandoffPending may return an error when input validation, dependency calls, or security checks fail.
// HandoffPending does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) HandoffPending(ctx context.Context) (bool, error) {
	_, err := c.store.Get(ctx, c.key(FieldHandoffPending))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearHandoffPending describes the clearhandoffpending operation and its observable behavior.
//
// ClearHandoffPending may return an error when input validation, dependency calls, or security checks fail.
// ClearHandoffPending does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credentials) ClearHandoffPending(ctx context.Context) error {
	return c.store.Delete(ctx, c.key(FieldHandoffPending))
}

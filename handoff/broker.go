package handoff

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ticketQueryParam carries the ticket key on the destination entry route.
const ticketQueryParam = "auth"

// Broker creates transfer tickets on the source side and resolves entry URLs.
//
// Broker instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Broker struct {
	store      *Store
	entryRoute string
	ttl        time.Duration
	now        func() time.Time
}

// NewBroker describes the newbroker operation and its observable behavior.
//
// NewBroker may return an error when input validation, dependency calls, or security checks fail.
// NewBroker does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewBroker(store *Store, entryRoute string, ttl time.Duration) (*Broker, error) {
	if store == nil {
		return nil, errors.New("ticket store required")
	}
	if entryRoute == "" {
		return nil, errors.New("entry route required")
	}
	if ttl <= 0 {
		return nil, errors.New("ticket ttl must be positive")
	}
	return &Broker{
		store:      store,
		entryRoute: entryRoute,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// CreateTicket stores the token pair under a fresh random key and returns the
// key together with the destination entry URL carrying it.
//
// CreateTicket may return an error when input validation, dependency calls, or security checks fail.
// CreateTicket does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Broker) CreateTicket(ctx context.Context, accessToken, refreshToken string) (key, entryURL string, err error) {
	if accessToken == "" || refreshToken == "" {
		return "", "", errors.New("both tokens required for a transfer ticket")
	}

	key = uuid.NewString()
	ticket := Ticket{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    b.now().Add(b.ttl).Unix(),
	}
	if err := b.store.Save(ctx, key, ticket, b.ttl); err != nil {
		return "", "", err
	}

	return key, b.entryRoute + "?" + ticketQueryParam + "=" + url.QueryEscape(key), nil
}

// Consume removes and returns the ticket under key. See [Store.Consume].
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Broker) Consume(ctx context.Context, key string) (*Ticket, error) {
	return b.store.Consume(ctx, key)
}

// KeyFromURL extracts the ticket key from an entry URL. An absent parameter
// returns the empty string, letting callers fall through to the normal
// authentication check.
//
// KeyFromURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func KeyFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Query().Get(ticketQueryParam)
}

// Latch is a one-shot guard that keeps a single invocation context from
// running the handoff flow twice. Unrelated callers are not serialized.
//
// Latch instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Latch struct {
	fired atomic.Bool
}

// TryAcquire returns true exactly once per latch.
//
// TryAcquire does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *Latch) TryAcquire() bool {
	return l.fired.CompareAndSwap(false, true)
}

// Fired reports whether the latch has been acquired.
//
// Fired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *Latch) Fired() bool {
	return l.fired.Load()
}

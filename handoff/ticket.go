package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/questline/sessionkit/credstore"
)

// ErrTicketNotFound is returned when no ticket exists under the given key,
// including the case of a ticket that was already consumed.
var ErrTicketNotFound = errors.New("handoff ticket not found")

// ErrTicketExpired is returned when a ticket exists but its window has lapsed.
var ErrTicketExpired = errors.New("handoff ticket expired")

// ErrTicketCorrupt is returned when a stored ticket payload cannot be decoded.
var ErrTicketCorrupt = errors.New("handoff ticket corrupt")

// evictionSlack keeps expired tickets around long enough for the rejected
// consume attempt to observe the expiry rather than a bare miss.
const evictionSlack = 30 * time.Second

// Ticket is the transfer payload written by the source application.
//
// Ticket instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Ticket struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expires"`
}

// Store persists tickets in the ephemeral scope with single-use semantics.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	eph credstore.Ephemeral
	now func() time.Time
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(eph credstore.Ephemeral) *Store {
	return &Store{eph: eph, now: time.Now}
}

// Save writes a ticket under key. The store entry outlives the ticket window
// by a small slack so a late consume is rejected as expired, not missing.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Save(ctx context.Context, key string, ticket Ticket, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ticket ttl must be positive")
	}
	data, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return s.eph.Set(ctx, key, data, ttl+evictionSlack)
}

// Consume atomically removes and returns the ticket under key. A second call
// with the same key yields ErrTicketNotFound; a lapsed ticket yields
// ErrTicketExpired and is deleted as a side effect of the attempt.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Consume(ctx context.Context, key string) (*Ticket, error) {
	data, err := s.eph.GetDel(ctx, key)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	var ticket Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, ErrTicketCorrupt
	}
	if s.now().Unix() > ticket.ExpiresAt {
		return nil, ErrTicketExpired
	}
	return &ticket, nil
}

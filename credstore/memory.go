package credstore

import (
	"context"
	"sync"
	"time"
)

// MemoryDurable is an in-process Durable implementation. It survives only the
// owning process, which makes it suitable for tests and single-binary setups.
//
// MemoryDurable instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryDurable struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryDurable describes the newmemorydurable operation and its observable behavior.
//
// NewMemoryDurable does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryDurable() *MemoryDurable {
	return &MemoryDurable{values: make(map[string]string)}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryDurable) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryDurable) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryDurable) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryEphemeral is an in-process Ephemeral implementation with lazy expiry.
//
// MemoryEphemeral instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryEphemeral struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryEphemeral describes the newmemoryephemeral operation and its observable behavior.
//
// NewMemoryEphemeral does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryEphemeral() *MemoryEphemeral {
	return &MemoryEphemeral{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryEphemeral) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryEphemeral) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(key, false)
}

// GetDel describes the getdel operation and its observable behavior.
//
// GetDel may return an error when input validation, dependency calls, or security checks fail.
// GetDel does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryEphemeral) GetDel(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(key, true)
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryEphemeral) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// lookup must be called with the mutex held.
func (s *MemoryEphemeral) lookup(key string, remove bool) ([]byte, error) {
	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrNotFound
	}
	if remove {
		delete(s.entries, key)
	}
	return append([]byte(nil), entry.value...), nil
}

package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix  = "sk"
	ephemeralKeySegment = "hk"
)

// RedisDurable implements Durable on a Redis keyspace.
//
// RedisDurable instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisDurable struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisDurable describes the newredisdurable operation and its observable behavior.
//
// NewRedisDurable does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisDurable(client redis.UniversalClient, prefix string) *RedisDurable {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisDurable{redis: client, prefix: prefix}
}

func (s *RedisDurable) key(key string) string {
	return s.prefix + ":" + key
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisDurable) Get(ctx context.Context, key string) (string, error) {
	val, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisDurable) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisDurable) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}
	if err := s.redis.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// RedisEphemeral implements Ephemeral on a Redis keyspace with native TTLs.
//
// RedisEphemeral instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisEphemeral struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisEphemeral describes the newredisephemeral operation and its observable behavior.
//
// NewRedisEphemeral does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisEphemeral(client redis.UniversalClient, prefix string) *RedisEphemeral {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisEphemeral{redis: client, prefix: prefix}
}

func (s *RedisEphemeral) key(key string) string {
	return s.prefix + ":" + ephemeralKeySegment + ":" + key
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisEphemeral) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisEphemeral) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

// GetDel describes the getdel operation and its observable behavior.
//
// GetDel may return an error when input validation, dependency calls, or security checks fail.
// GetDel does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisEphemeral) GetDel(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.GetDel(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisEphemeral) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

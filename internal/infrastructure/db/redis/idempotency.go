package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed create can hold a key.
	pendingTTL    = time.Minute
	pendingMarker = "\x00pending"
)

// IdempotencyStore remembers which entity a client-supplied Idempotency-Key
// created, per owner and resource kind.
// Key format: idem:<owner_id>:<scope>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given Redis client. A non-positive ttl uses
// defaultIdempotencyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. A key held by another request yields the
// entity id it stored, or "" while that request is still creating.
func (s *IdempotencyStore) Reserve(ctx context.Context, ownerID, scope, key string) (string, bool, error) {
	k := s.key(ownerID, scope, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}
	id, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil), id == pendingMarker:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return id, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, ownerID, scope, key, entityID string) error {
	if err := s.client.Set(ctx, s.key(ownerID, scope, key), entityID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, ownerID, scope, key string) error {
	if err := s.client.Del(ctx, s.key(ownerID, scope, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, scope, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s", ownerID, scope, key)
}

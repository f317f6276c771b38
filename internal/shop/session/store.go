// Package session keeps the server-side record of each user's current
// refresh token in Redis. A refresh token is only honoured while it matches
// this record, which is what makes logout and session eviction work despite
// the tokens themselves being stateless JWTs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh_token:"

// Store maps user id -> current refresh token with a TTL matching the refresh
// token lifetime. One record per user: a new login overwrites the old record
// and thereby invalidates the previous session.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID string) string { return keyPrefix + userID }

// Put records token as the user's active refresh token, overwriting any
// previous record and resetting the TTL.
func (s *Store) Put(ctx context.Context, userID, token string) error {
	if err := s.rdb.Set(ctx, key(userID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: put: %w", err)
	}
	return nil
}

// Get returns the user's active refresh token, or "" when no record exists.
// A missing record is a cache miss, not an error.
func (s *Store) Get(ctx context.Context, userID string) (string, error) {
	val, err := s.rdb.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: get: %w", err)
	}
	return val, nil
}

// Delete removes the user's session record. Deleting an absent record is fine.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists hashed refresh tokens keyed by jti. A stored hash is
// single-use: Take returns it and removes it in one step, so a replayed
// token finds nothing.
type TokenStore interface {
	Save(ctx context.Context, jti, tokenHash string, ttl time.Duration) error
	Take(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

const refreshKeyPrefix = "refresh:"

type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a Redis-backed refresh token store
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, jti, tokenHash string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+jti, tokenHash, ttl).Err()
}

// Take atomically reads and deletes the stored hash. Missing keys return
// an empty hash with no error.
func (s *redisTokenStore) Take(ctx context.Context, jti string) (string, error) {
	hash, err := s.client.GetDel(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return hash, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, refreshKeyPrefix+jti).Err()
}

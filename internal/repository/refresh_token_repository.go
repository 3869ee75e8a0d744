package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk/internal/persistence"
)

// ErrRefreshTokenUnknown is returned when a refresh token id is not live.
var ErrRefreshTokenUnknown = errors.New("refresh token unknown or revoked")

// RefreshTokenRepository tracks issued refresh tokens so they can be rotated and revoked.
type RefreshTokenRepository interface {
	Store(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	// Consume atomically removes the token and returns its owner.
	Consume(ctx context.Context, tokenID string) (string, error)
	Revoke(ctx context.Context, tokenID string) error
}

type refreshTokenRepository struct {
	rdb    *persistence.Redis
	client *redis.Client
}

// NewRefreshTokenRepository returns a Redis-backed implementation. Each live
// token is one key holding the owner's user id, expiring with the token.
func NewRefreshTokenRepository(rdb *persistence.Redis) RefreshTokenRepository {
	return &refreshTokenRepository{rdb: rdb, client: rdb.Client}
}

func (r *refreshTokenRepository) refreshKey(tokenID string) string {
	return r.rdb.Key("auth", "refresh", tokenID)
}

func (r *refreshTokenRepository) Store(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.refreshKey(tokenID), userID, ttl).Err()
}

func (r *refreshTokenRepository) Consume(ctx context.Context, tokenID string) (string, error) {
	userID, err := r.client.GetDel(ctx, r.refreshKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenUnknown
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, r.refreshKey(tokenID)).Err()
}

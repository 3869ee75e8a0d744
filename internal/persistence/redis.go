package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Redis holds the go-redis client together with the key namespace all
// helpdesk keys live under.
type Redis struct {
	Client *redis.Client
	prefix string
}

// NewRedis builds the client and probes it once. Redis being down at startup is
// not fatal: token refresh fails until it comes back and /health/ready reports it.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(probeCtx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}

	return &Redis{Client: client, prefix: strings.TrimSuffix(cfg.KeyPrefix, ":")}
}

// Key joins parts under the configured prefix, e.g. Key("auth", "refresh", id)
// yields "helpdesk:auth:refresh:<id>".
func (r *Redis) Key(parts ...string) string {
	key := strings.Join(parts, ":")
	if r == nil || r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

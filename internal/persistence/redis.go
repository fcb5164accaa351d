package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/controller/form"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
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

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// SubmitLock is a form.SubmitLock shared by every console replica.
type SubmitLock struct {
	redis  *Redis
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewSubmitLock builds a Redis-backed submit lock. Locks expire after ttl
// even if the holder never releases them.
func NewSubmitLock(r *Redis, ttl time.Duration, logger *zap.Logger) *SubmitLock {
	return &SubmitLock{redis: r, ttl: ttl, prefix: "employee-admin:submit:", logger: logger}
}

// TryLock implements form.SubmitLock.
func (l *SubmitLock) TryLock(ctx context.Context, key string) (func(), error) {
	if l.redis == nil || l.redis.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	redisKey := l.prefix + key
	token := uuid.NewString()

	acquired, err := l.redis.Client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, form.ErrSubmitInProgress
	}

	return func() {
		// The request context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.redis.Client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("submit lock release failed", zap.String("key", redisKey), zap.Error(err))
		}
	}, nil
}

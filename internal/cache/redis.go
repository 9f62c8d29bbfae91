package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizzy/internal/config"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled is returned when no Redis address is configured.
var ErrDisabled = errors.New("redis address not configured")

const (
	pingTimeout = 3 * time.Second
	// Cache calls sit on the request path; a slow Redis should miss fast
	// and let the database answer.
	opTimeout = 500 * time.Millisecond
)

// NewRedisClient connects and pings once. Callers treat any error as
// "run without a cache".
func NewRedisClient(ctx context.Context, redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, ErrDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisCfg.Address,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", redisCfg.Address, err)
	}
	return client, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	redisDialTimeout    = 5 * time.Second
	redisConnectRetries = 5
)

// connectRedis opens a client and pings it until it answers, backing off
// between attempts. The client is closed when every attempt fails.
func connectRedis(ctx context.Context, cfg Config, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: redisDialTimeout,
	})

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	eb.MaxInterval = 5 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(eb, redisConnectRetries), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}, b, func(err error, next time.Duration) {
		logger.Warn("redis connection failed, retrying",
			"attempt", attempt,
			"max_retries", redisConnectRetries,
			"backoff", next,
			"error", err,
		)
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s after %d attempts: %w", cfg.RedisAddr, attempt, err)
	}

	logger.Info("redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return client, nil
}

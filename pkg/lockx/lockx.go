// Package lockx provides a short-lived distributed mutex on Redis.
package lockx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock is still held elsewhere after the
// wait time is spent.
var ErrNotAcquired = errors.New("lockx: lock not acquired")

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker hands out SET NX PX locks under Prefix.
type RedisLocker struct {
	Client *redis.Client
	Prefix string

	// TTL bounds how long a crashed holder can block others.
	TTL time.Duration

	// Wait is how long Acquire polls before giving up.
	Wait time.Duration

	// Poll is the delay between attempts.
	Poll time.Duration
}

// NewRedisLocker returns a locker with sane defaults.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{
		Client: client,
		Prefix: prefix,
		TTL:    10 * time.Second,
		Wait:   3 * time.Second,
		Poll:   50 * time.Millisecond,
	}
}

// Acquire blocks until key is held or Wait elapses. The returned func
// releases the lock and is safe to call once.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}
	full := l.Prefix + key

	deadline := time.Now().Add(l.Wait)
	for {
		ok, err := l.Client.SetNX(ctx, full, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lockx: set %s: %w", full, err)
		}
		if ok {
			return func() {
				// Release on a fresh context; the caller's may be done.
				rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.Client, []string{full}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Poll):
		}
	}
}

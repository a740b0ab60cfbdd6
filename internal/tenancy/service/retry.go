package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultOpTimeout bounds a single store or dispatcher attempt.
	DefaultOpTimeout = 5 * time.Second

	defaultMaxRetries      = 3
	defaultInitialInterval = 100 * time.Millisecond
)

// RetryPolicy bounds retries of transient store and dispatcher failures.
// The zero value uses the defaults.
type RetryPolicy struct {
	OpTimeout       time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.OpTimeout <= 0 {
		p.OpTimeout = DefaultOpTimeout
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultInitialInterval
	}
	return p
}

// isTransient reports whether an attempt is worth repeating.
type isTransient func(error) bool

func storeTransient(err error) bool {
	return errors.Is(err, store.ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

// do runs op until it succeeds, fails permanently or the policy runs out.
// Each attempt gets its own OpTimeout. Exhaustion is reported as
// ErrUnavailable; caller cancellation is returned as is.
func (p RetryPolicy) do(ctx context.Context, transient isTransient, op func(ctx context.Context) error) error {
	p = p.withDefaults()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)

	err := backoff.Retry(func() error {
		actx, cancel := context.WithTimeout(ctx, p.OpTimeout)
		defer cancel()

		err := op(actx)
		if err == nil {
			return nil
		}
		if ctx.Err() == nil && transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && transient(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// retryStore is do for store calls.
func retryStore(ctx context.Context, p RetryPolicy, op func(ctx context.Context) error) error {
	return p.do(ctx, storeTransient, op)
}

// retryStoreValue is retryStore for calls that return a value.
func retryStoreValue[T any](ctx context.Context, p RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := retryStore(ctx, p, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

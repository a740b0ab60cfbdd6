package lockx_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/testutil"
	"github.com/aussiebroadwan/tenancy/pkg/lockx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	addr := testutil.StartRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	locker := lockx.NewRedisLocker(client, "test:lock:")

	t.Run("mutual exclusion", func(t *testing.T) {
		var inside, maxInside atomic.Int32
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locker.Acquire(t.Context(), "tenant|a@example.com")
				if err != nil {
					t.Error(err)
					return
				}
				n := inside.Add(1)
				for {
					m := maxInside.Load()
					if n <= m || maxInside.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inside.Add(-1)
				release()
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxInside.Load())
	})

	t.Run("times out while held", func(t *testing.T) {
		release, err := locker.Acquire(t.Context(), "held")
		require.NoError(t, err)
		defer release()

		short := lockx.NewRedisLocker(client, "test:lock:")
		short.Wait = 100 * time.Millisecond
		_, err = short.Acquire(t.Context(), "held")
		require.ErrorIs(t, err, lockx.ErrNotAcquired)
	})

	t.Run("release does not steal a newer holder", func(t *testing.T) {
		short := lockx.NewRedisLocker(client, "test:lock:")
		short.TTL = 50 * time.Millisecond

		staleRelease, err := short.Acquire(t.Context(), "ttl")
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)

		release, err := locker.Acquire(t.Context(), "ttl")
		require.NoError(t, err)
		defer release()

		staleRelease()
		exists, err := client.Exists(t.Context(), "test:lock:ttl").Result()
		require.NoError(t, err)
		require.Equal(t, int64(1), exists)
	})
}

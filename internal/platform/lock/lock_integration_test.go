//go:build integration

package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condovote/internal/platform/lock"
	"condovote/pkg/testutil/containers"
)

func TestRedisLockSerializesHolders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	l := lock.NewRedis(rc.Client, time.Minute,
		lock.WithPrefix("it:lock:"),
		lock.WithWait(5*time.Second, 5*time.Millisecond),
	)

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "condo-1")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(10 * time.Millisecond)
			inside.Add(-1)
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	exists, err := rc.Client.Exists(ctx, "it:lock:condo-1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

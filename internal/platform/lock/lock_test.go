package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisLockSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	lock   *Redis
	ctx    context.Context
}

func TestRedisLockSuite(t *testing.T) {
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.lock = NewRedis(s.client, time.Minute, WithWait(0, time.Millisecond))
	s.ctx = context.Background()
}

func (s *RedisLockSuite) TearDownTest() {
	_ = s.client.Close()
}

func (s *RedisLockSuite) TestAcquireAndRelease() {
	release, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)
	s.True(s.mr.Exists("condovote:lock:condo-1"))

	_, err = s.lock.Acquire(s.ctx, "condo-1")
	s.ErrorIs(err, ErrNotAcquired)

	s.Require().NoError(release(s.ctx))
	s.False(s.mr.Exists("condovote:lock:condo-1"))
	s.NoError(release(s.ctx), "second release is a no-op")

	again, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)
	s.NoError(again(s.ctx))
}

func (s *RedisLockSuite) TestKeysAreIndependent() {
	r1, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)
	r2, err := s.lock.Acquire(s.ctx, "condo-2")
	s.Require().NoError(err)
	s.NoError(r1(s.ctx))
	s.NoError(r2(s.ctx))
}

func (s *RedisLockSuite) TestExpiredHolderCannotReleaseNewOwner() {
	release, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)
	newRelease, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)

	s.Require().NoError(release(s.ctx))
	s.True(s.mr.Exists("condovote:lock:condo-1"), "stale release must not delete the new owner's key")
	s.NoError(newRelease(s.ctx))
}

func (s *RedisLockSuite) TestWaitsForRelease() {
	lock := NewRedis(s.client, time.Minute, WithWait(time.Second, 5*time.Millisecond))
	release, err := lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = release(context.Background())
	}()

	second, err := lock.Acquire(s.ctx, "condo-1")
	s.Require().NoError(err)
	s.NoError(second(s.ctx))
}

func (s *RedisLockSuite) TestRedisDown() {
	s.mr.Close()
	_, err := s.lock.Acquire(s.ctx, "condo-1")
	s.Error(err)
	s.False(errors.Is(err, ErrNotAcquired))
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(10 * time.Millisecond)

	release, err := l.Acquire(ctx, "condo-1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "condo-1")
	assert.ErrorIs(t, err, ErrNotAcquired)

	other, err := l.Acquire(ctx, "condo-2")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	again, err := l.Acquire(ctx, "condo-1")
	require.NoError(t, err)
	require.NoError(t, again(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	hold, err := l.Acquire(ctx, "condo-3")
	require.NoError(t, err)
	_, err = l.Acquire(cancelled, "condo-3")
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, hold(ctx))
}

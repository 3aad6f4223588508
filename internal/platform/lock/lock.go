// Package lock provides mutual exclusion keyed by string across processes
// (Redis) or within one process (Local).
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock stayed held for the whole wait.
var ErrNotAcquired = errors.New("lock not acquired")

// Release gives the lock back. It is safe to call more than once.
type Release func(ctx context.Context) error

// Redis implements a single-instance Redis lock with SET NX PX and a
// compare-and-delete release, so a holder whose TTL lapsed cannot release a
// lock someone else now holds.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

type RedisOption func(*Redis)

// WithWait bounds how long Acquire retries a held lock.
func WithWait(wait, poll time.Duration) RedisOption {
	return func(r *Redis) {
		r.wait = wait
		if poll > 0 {
			r.poll = poll
		}
	}
}

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

func NewRedis(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "condovote:lock:",
		ttl:    ttl,
		wait:   10 * time.Second,
		poll:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			var once sync.Once
			return func(ctx context.Context) error {
				var err error
				once.Do(func() {
					err = releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err()
				})
				return err
			}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// Local is an in-process lock for single-instance deployments and tests.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewLocal(wait time.Duration) *Local {
	return &Local{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-slot })
		return nil
	}, nil
}

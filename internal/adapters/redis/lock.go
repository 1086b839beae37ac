package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a per-key mutual exclusion via SET NX with a TTL. The TTL bounds
// how long a crashed holder can block others; there is no fencing token, so
// callers must treat the lock as advisory.
type Lock struct{ c *redis.Client }

func NewLock(c *redis.Client) *Lock { return &Lock{c: c} }

func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.c.SetNX(ctx, "lock:"+key, 1, ttl).Result()
}

func (l *Lock) Release(ctx context.Context, key string) error {
	return l.c.Del(ctx, "lock:"+key).Err()
}

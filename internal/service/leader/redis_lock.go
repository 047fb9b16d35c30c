package leader

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	domrepo "OddsCast/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// renewScript extends the lease only while we still hold it.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0`)

// releaseScript deletes the lease only while we still hold it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisLock is a lease-based lock that guarantees a single ingestion
// loop system-wide when multiple processes might start one. A process
// that fails to acquire the lease serves reads only.
type RedisLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewRedisLock creates a leader lock on the given key with a lease TTL.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return &RedisLock{
		client: client,
		key:    key,
		token:  hex.EncodeToString(buf),
		ttl:    ttl,
	}
}

// Acquire attempts to take the lease. Returns false when another
// process holds it.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire leader lease: %w", err)
	}
	return ok, nil
}

// Renew extends the lease. Returns false when the lease was lost.
func (l *RedisLock) Renew(ctx context.Context) (bool, error) {
	n, err := renewScript.Run(ctx, l.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("renew leader lease: %w", err)
	}
	return n == 1, nil
}

// Release gives up the lease if we still hold it.
func (l *RedisLock) Release(ctx context.Context) error {
	if _, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Result(); err != nil {
		return fmt.Errorf("release leader lease: %w", err)
	}
	return nil
}

// NoopLock is used in single-process deployments where the process is
// by construction the only ingester.
type NoopLock struct{}

func (NoopLock) Acquire(ctx context.Context) (bool, error) { return true, nil }
func (NoopLock) Renew(ctx context.Context) (bool, error)   { return true, nil }
func (NoopLock) Release(ctx context.Context) error         { return nil }

var _ domrepo.LeaderLock = (*RedisLock)(nil)
var _ domrepo.LeaderLock = NoopLock{}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRunInProgress is returned when another run holds the pipeline lock.
var ErrRunInProgress = errors.New("a comorbidity run is already in progress")

const (
	defaultLockKey = "comorbidity:pipeline:lock"
	defaultLockTTL = 30 * time.Minute
)

// Unlock releases a lock obtained from a Locker.
type Unlock func(ctx context.Context) error

// Locker serializes pipeline runs across processes sharing one store.
type Locker interface {
	Acquire(ctx context.Context) (Unlock, error)
}

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock taken over by another run is left alone.
const releaseScript = `
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`

// RedisLocker takes the run lock with SET NX and a TTL.
type RedisLocker struct {
	rdb      *redis.Client
	key      string
	ttl      time.Duration
	newToken func() string
}

// NewRedisLocker returns nil when rdb is nil, which leaves cross-process
// locking off.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{rdb: rdb, key: defaultLockKey, ttl: ttl, newToken: uuid.NewString}
}

func (l *RedisLocker) Acquire(ctx context.Context) (Unlock, error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func(ctx context.Context) error {
		return l.rdb.Eval(ctx, releaseScript, []string{l.key}, token).Err()
	}, nil
}

package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultLockKey = "maiopinion:reminders:scan"

// Lock guards a scan so that only one process runs it at a time.
// Acquire reports ok=false when another holder has it.
type Lock interface {
	Acquire(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

type NopLock struct{}

func (NopLock) Acquire(context.Context) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

// releaseScript deletes the key only when it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLock struct {
	rdb goredis.UniversalClient
	key string
	ttl time.Duration
}

func NewRedisLock(rdb goredis.UniversalClient, key string, ttl time.Duration) *RedisLock {
	if key == "" {
		key = DefaultLockKey
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLock{rdb: rdb, key: key, ttl: ttl}
}

func (l *RedisLock) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}

// DialRedis connects and pings.
func DialRedis(ctx context.Context, addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

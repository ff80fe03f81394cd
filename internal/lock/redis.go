package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisFactory hands out locks shared by every process on the same redis
type RedisFactory struct {
	client *redis.Client
	prefix string
}

// NewRedisFactory creates a factory storing keys under prefix
func NewRedisFactory(client *redis.Client, prefix string) *RedisFactory {
	return &RedisFactory{client: client, prefix: prefix}
}

// Acquire implements Factory using SET NX with expiry
func (f *RedisFactory) Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	full := f.prefix + key
	token := uuid.New().String()

	ok, err := f.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLock{client: f.client, key: key, full: full, token: token}, nil
}

type redisLock struct {
	client *redis.Client
	key    string
	full   string
	token  string
}

func (l *redisLock) Key() string { return l.key }

func (l *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.full}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}

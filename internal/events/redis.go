package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quocvuong92/ai-apps/internal/logging"
)

const publishTimeout = 3 * time.Second

// RedisPublisher publishes events as JSON on a redis channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
	queue   *Queue[Event]
}

// NewRedisClient parses a redis:// URL and configures the pool
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 1
	opts.MaxRetries = 1
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	return redis.NewClient(opts), nil
}

// NewRedisPublisher starts a publisher on channel
func NewRedisPublisher(client *redis.Client, channel string, size int, logger *logging.Logger) *RedisPublisher {
	p := &RedisPublisher{client: client, channel: channel}
	p.queue = NewQueue[Event]("redis-events", size, p.send, logger)
	return p
}

// Publish enqueues ev; it never blocks
func (p *RedisPublisher) Publish(ev Event) {
	p.queue.Offer(ev)
}

// Close drains pending events. The redis client is owned by the caller.
func (p *RedisPublisher) Close(ctx context.Context) error {
	return p.queue.Close(ctx)
}

func (p *RedisPublisher) send(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

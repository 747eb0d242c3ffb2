package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"creditcard-scraper/models"
)

// RedisPublisher publishes each report as JSON to a Redis channel so
// downstream consumers pick up fresh extractions without polling files.
type RedisPublisher struct {
	client  *redis.Client
	ctx     context.Context
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr string, db int, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}

	return &RedisPublisher{client: client, ctx: ctx, channel: channel}, nil
}

// Write publishes the serialized report to the configured channel.
func (p *RedisPublisher) Write(report *models.ExtractionReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis: marshal report: %w", err)
	}
	if err := p.client.Publish(p.ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", p.channel, err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

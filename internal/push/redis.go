package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FamilyChannel is where expiry batches for a family are published.
func FamilyChannel(familyID int64) string {
	return fmt.Sprintf("family:%d:expiry", familyID)
}

// RedisPublisher pushes expiry batches onto per-family pub/sub channels so
// out-of-process consumers (mobile push workers, websocket gateways on
// other nodes) can pick them up.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr, password string, db int) *RedisPublisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisPublisher{client: rdb}
}

// NewRedisPublisherFromClient is used by tests to inject a miniredis-backed client.
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func (p *RedisPublisher) Dispatch(ctx context.Context, familyID int64, eventType string, items []ExpiringItemNotification) error {
	event := Event{
		Type:     eventType,
		FamilyID: familyID,
		Items:    items,
		SentAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, FamilyChannel(familyID), data).Err()
}

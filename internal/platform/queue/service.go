package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const orderEventsQueue = "orders:events"

// QueueService defines the interface for order-event queue operations
type QueueService interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	ConsumeOrderPlaced(ctx context.Context) (*OrderPlacedEvent, error)
}

// OrderPlacedEvent is emitted after an order transaction commits. Consumers
// dispatch the confirmation for it.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	ClientID   string    `json:"client_id"`
	TotalPrice int64     `json:"total_price"`
	PlacedAt   time.Time `json:"placed_at"`
}

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// PublishOrderPlaced pushes an order-placed event onto the Redis queue.
func (q *RedisQueue) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := q.client.LPush(ctx, orderEventsQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to queue: %w", err)
	}

	return nil
}

// ConsumeOrderPlaced pops the next order-placed event from the queue. It
// blocks for at most five seconds so callers can observe context
// cancellation; (nil, nil) means no event was available.
func (q *RedisQueue) ConsumeOrderPlaced(ctx context.Context) (*OrderPlacedEvent, error) {
	result, err := q.client.BRPop(ctx, 5*time.Second, orderEventsQueue).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to pop event from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid queue response")
	}

	var event OrderPlacedEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

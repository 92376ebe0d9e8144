package queue

import (
	"context"
	"fmt"

	"github.com/mfigueiredo/storefront-api/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// InitRedis opens and verifies a connection to the Redis server backing the
// order-events queue.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error verifying Redis connection: %w", err)
	}

	return client, nil
}

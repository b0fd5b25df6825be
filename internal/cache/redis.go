// Package cache manages the process-wide Redis client used for rate limiting.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis at the given address. Returns nil when Redis is
// unreachable; callers treat a nil client as "rate limiting disabled" rather
// than failing startup.
func NewClient(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without rate limiting)", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return client
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window per-user request budget in Redis
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

func userKey(userID uuid.UUID) string {
	return "ratelimit:user:" + userID.String()
}

// Allow counts one request against the user's current minute window.
// Returns (allowed, remaining, resetTime, error)
func (r *RateLimiter) Allow(ctx context.Context, userID uuid.UUID) (bool, int, time.Time, error) {
	key := userKey(userID)
	windowEnd := time.Now().Truncate(time.Minute).Add(time.Minute)

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	budget := int64(r.requestsPerMinute + r.burst)
	count := incrCmd.Val()
	remaining := int(budget - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= budget, remaining, windowEnd, nil
}

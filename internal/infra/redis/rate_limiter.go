package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter shared by every instance that
// talks to the same Redis.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one call of action by clientID and reports whether it is
// within the limit for the current window.
func (r *RateLimiter) Allow(ctx context.Context, clientID, action string) (bool, error) {
	key := ClientActionKey(clientID, action)
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}

// ClientActionKey scopes a limit to one API client and action.
func ClientActionKey(clientID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", clientID, action)
}

package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter in redis, keyed per client.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// ByIP limits by client address. A nil redis client disables limiting.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.ByKey(func(c *fiber.Ctx) string { return c.IP() })
}

func (r *RateLimiter) ByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil || r.rdb == nil {
			return c.Next()
		}
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.rdb.Incr(c.Context(), key).Result()
		if err != nil {
			// Limiter outage must not take auth down with it.
			return c.Next()
		}
		if count == 1 {
			r.rdb.Expire(c.Context(), key, r.window)
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests",
			})
		}
		return c.Next()
	}
}

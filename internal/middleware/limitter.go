package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// GenerateLimiter caps generate calls per client IP. Each call spends the
// visitor's own completion quota, so the cap is about abuse, not cost.
// onLimit answers a refused call; nil gives a JSON 429.
func GenerateLimiter(max int, window time.Duration, onLimit fiber.Handler) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	if onLimit == nil {
		onLimit = limitReachedJSON
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: onLimit,
	})
}

func limitReachedJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "rate limit exceeded",
	})
}

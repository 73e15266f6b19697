package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ReqIDKey = "reqID"

func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		// client supplied ids are echoed only when they are short enough to log
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(ReqIDKey, rid)
		return c.Next()
	}
}

// RequestIDOf returns the id set by RequestID, or "" outside it.
func RequestIDOf(c *fiber.Ctx) string {
	rid, _ := c.Locals(ReqIDKey).(string)
	return rid
}

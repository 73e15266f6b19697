package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionIDKey = "sessionID"

// Session assigns every visitor an opaque session id cookie. The id keys the
// stored form state; nothing secret is ever put in the cookie.
func Session(cookieName string, ttl time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cookieName)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}
		// refresh on every hit so an active visitor keeps the session
		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    sid,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: "Lax",
			MaxAge:   int(ttl.Seconds()),
		})
		c.Locals(SessionIDKey, sid)
		return c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside it.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(SessionIDKey).(string)
	return sid
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/helmet/v2"
)

// SecureHeaders sets the helmet defaults plus a CSP that fits the form pages:
// one inline script (clipboard copy) and same-origin websocket.
func SecureHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"connect-src 'self' ws: wss:; " +
			"frame-ancestors 'none';",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
	})
}

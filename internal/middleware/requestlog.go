package middleware

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/emandor/mocktest_service/internal/config"
	"github.com/emandor/mocktest_service/internal/telemetry"
)

// RequestLog writes one line per request. Bodies are never logged: the
// generate request carries the completion credential.
func RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log := telemetry.L().With().Str("req_id", RequestIDOf(c)).Logger()

		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Str("ip", c.IP()).
			Str("ua", c.Get(fiber.HeaderUserAgent)).
			Msg("http_request")
		return err
	}
}

func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log := telemetry.L().With().Str("req_id", RequestIDOf(c)).Logger()
				log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("panic_recovered")
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
			}
		}()
		return c.Next()
	}
}

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

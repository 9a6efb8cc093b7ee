package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

// LoggingMiddleware loggea cada request con método, ruta, status y latencia.
func LoggingMiddleware(log *logger.Logger) fiber.Handler {
	l := log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ev := l.Info()
		if status >= 500 {
			ev = l.Error()
		} else if status >= 400 {
			ev = l.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}

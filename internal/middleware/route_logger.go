package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RouteLogger logs each request entry and exit with duration, trace ID and
// the session user when one is present. Server errors exit at warn so they
// stand out in the stream.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		start := time.Now()
		log.Info().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		ms := time.Since(start).Milliseconds()
		status := c.Response().StatusCode()

		level := zerolog.InfoLevel
		if status >= 500 {
			level = zerolog.WarnLevel
		}
		evt := log.WithLevel(level).Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Int64("ms", ms)
		if actor := GetActor(c); actor != nil {
			evt = evt.Str("user_id", actor.UserID)
		}
		evt.Msg("Exiting request")
		return err
	}
}

package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/logging"
)

// Logger logs each HTTP request as one JSON line through log.
// Fields: request_id (set by RequestID), method, path, status, latency in ms.
func Logger(log *logging.Logger) fiber.Handler {
	log = log.With(logging.Fields{"component": "http"})

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		fields := logging.Fields{
			"event":      "http_request",
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if uid, ok := c.Locals(UserIDLocalKey).(string); ok && uid != "" {
			fields["user_id"] = uid
		}
		if status >= fiber.StatusInternalServerError {
			fields["level"] = "error"
		}
		log.Event(fields)

		return err
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	if w == nil {
		w = os.Stdout
	}
	return Logger(logging.New(w, loc))
}

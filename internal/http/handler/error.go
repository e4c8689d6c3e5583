package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/http/middleware"
)

// errorPayload is the body of every non-2xx JSON response except check-email.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError never echoes internal error text: code is machine-readable,
// message is safe to show.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

var statusErrors = map[int]errorEnvelope{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusUnauthorized:          {"UNAUTHORIZED", "authentication required"},
	fiber.StatusForbidden:             {"FORBIDDEN", "access denied"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
}

// ErrorHandler maps errors escaping handlers and middleware onto the envelope.
// Unknown errors and unlisted statuses become INTERNAL_ERROR.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		if e, ok := statusErrors[status]; ok {
			return writeError(c, status, e.Code, e.Message)
		}
		return writeError(c, status, "INTERNAL_ERROR", "internal server error")
	}
}

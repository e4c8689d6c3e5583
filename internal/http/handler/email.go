package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/http/middleware"
	"studyhub/internal/logging"
	"studyhub/internal/service"
)

// The check-email body is consumed by the signup form as is, so it does not
// use the error envelope.

type checkEmailRequest struct {
	Email string `json:"email"`
}

type checkEmailResponse struct {
	Exists bool `json:"exists"`
}

type checkEmailError struct {
	Error string `json:"error"`
}

const msgEmailRequired = "Email requis"

// CheckEmail answers whether an account already uses the posted address.
//
// @Summary  Check whether an email is registered
// @Tags     functions
// @Accept   json
// @Produce  json
// @Param    body body     checkEmailRequest true "address to look up"
// @Success  200  {object} checkEmailResponse
// @Failure  400  {object} checkEmailError
// @Failure  500  {object} checkEmailError
// @Router   /check-email [post]
func CheckEmail(lookup service.EmailLookup, log *logging.Logger) fiber.Handler {
	log = log.With(logging.Fields{"component": "check-email"})

	return func(c *fiber.Ctx) error {
		var req checkEmailRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil || strings.TrimSpace(req.Email) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(checkEmailError{Error: msgEmailRequired})
		}

		exists, err := lookup.Exists(c.UserContext(), req.Email)
		if err != nil {
			log.Error("email lookup failed", logging.Fields{
				"request_id": middleware.RequestIDFrom(c),
				"error":      err,
			})
			return c.Status(fiber.StatusInternalServerError).JSON(checkEmailError{Error: err.Error()})
		}
		return c.JSON(checkEmailResponse{Exists: exists})
	}
}

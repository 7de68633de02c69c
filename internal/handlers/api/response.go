package api

import (
	"github.com/gofiber/fiber/v3"
)

// Envelope for admin responses. /api/ask answers are sent unwrapped.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(envelope{Status: "ok", Data: data})
}

// jsonCreated returns a 201 response with the created resource.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Status: "ok", Data: data})
}

// jsonError returns an error response with the given HTTP status code. The
// error text is what the widget shows to the user.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Status: "error", Error: message})
}

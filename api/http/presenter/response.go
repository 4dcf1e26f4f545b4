package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
	// Field names the rejected input for validation failures.
	Field string `json:"field,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func FieldError(c *fiber.Ctx, status int, field, message string) error {
	return JSON(c, status, ErrorResponse{Message: message, Field: field})
}

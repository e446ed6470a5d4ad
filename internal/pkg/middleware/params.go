package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/validation"
)

// ValidateUUIDParams rejects requests whose named route params are not UUIDs.
func ValidateUUIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var messages []string
		for _, name := range names {
			messages = append(messages, validation.Var(name, c.Params(name), "required,uuid")...)
		}
		if len(messages) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation error",
				"errors":  messages,
			})
		}
		return c.Next()
	}
}

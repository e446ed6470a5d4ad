package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/apperror"
)

const msgInvalidBody = "invalid request body"

type envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(envelope{Message: message, Data: data})
}

// respondError renders err with the status of its kind. Details become the
// errors list, otherwise errors is true.
func respondError(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.Internal {
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), appErr)
	}

	var errs interface{} = true
	if len(appErr.Details) > 0 {
		errs = appErr.Details
	}
	return c.Status(appErr.StatusCode()).JSON(envelope{Message: appErr.Message, Errors: errs})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.NewBadRequestError(msgInvalidBody, err)
	}
	return nil
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/auth"
)

type AuthController struct {
	auth *auth.Service
}

func NewAuthController(svc *auth.Service) *AuthController {
	return &AuthController{auth: svc}
}

func (ac *AuthController) HandleSignup(c *fiber.Ctx) error {
	var in auth.SignupInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	token, err := ac.auth.Signup(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Please check your mail to verify your account", fiber.Map{"token": token})
}

func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var in auth.LoginInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	sess, err := ac.auth.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "You have successfully logged in", sess)
}

// HandleConfirm verifies the email address behind the token in the link.
func (ac *AuthController) HandleConfirm(c *fiber.Ctx) error {
	confirmed, err := ac.auth.Confirm(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Your account has been verified", fiber.Map{"confirmed": confirmed})
}

func (ac *AuthController) HandleForgotPassword(c *fiber.Ctx) error {
	var in auth.ForgotPasswordInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	token, err := ac.auth.ForgotPassword(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Email has been sent successfully", fiber.Map{"token": token})
}

func (ac *AuthController) HandleResetPassword(c *fiber.Ctx) error {
	var in auth.ResetPasswordInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	if err := ac.auth.ResetPassword(c.UserContext(), c.Params("token"), in); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Password successfully reset", nil)
}

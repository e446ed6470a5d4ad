package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/security"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/usercontext"
)

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Verify(token, purpose string) (*security.Claims, error)
}

// RequireAPIAuth authenticates requests carrying an access token and returns JSON 401 otherwise.
func RequireAPIAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return unauthorized(c, "jwt must be provided")
		}

		claims, err := verifier.Verify(token, security.PurposeAccess)
		if err != nil {
			log.Debugf("[Auth] rejected token: %v", err)
			return unauthorized(c, "invalid token")
		}

		usercontext.Set(c, usercontext.UserContext{
			UserID:     claims.UserID,
			Email:      claims.Email,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}

// ExtractToken reads the token from x-access-token, or from Authorization
// as either "Bearer <token>" or the bare token.
func ExtractToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get("x-access-token")); token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return auth
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"errors":  true,
	})
}

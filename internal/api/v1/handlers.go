// Package apiv1 wires the v1 REST routes to their controllers.
package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/AuthorsHaven/app/controllers"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/middleware"
)

// Server groups the controllers behind the v1 routes.
type Server struct {
	Articles *controllers.ArticleController
	Comments *controllers.CommentController
	Auth     *controllers.AuthController
	OAuth    *controllers.OAuthController
	// Verifier authenticates bearer tokens on protected routes
	Verifier middleware.TokenVerifier
}

type Pong struct {
	Message string `json:"message"`
}

// GetPing handles the ping endpoint
func (s *Server) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Message: "Welcome to Authors Haven API v1"})
}

// RegisterHandlers installs every v1 route on router.
func RegisterHandlers(router fiber.Router, s *Server) {
	requireAuth := middleware.RequireAPIAuth(s.Verifier)
	articleID := middleware.ValidateUUIDParams("articleId")

	router.Get("/", s.GetPing)

	article := router.Group("/article")
	article.Post("/", requireAuth, s.Articles.HandleCreate)
	article.Get("/:articleId", articleID, s.Articles.HandleGet)
	article.Post("/:articleId/rate", requireAuth, articleID, s.Articles.HandleRate)
	article.Post("/:articleId/like", requireAuth, articleID, s.Articles.HandleLike)
	article.Post("/:articleId/unlike", requireAuth, articleID, s.Articles.HandleUnlike)
	article.Post("/:articleId/comments", requireAuth, articleID, s.Comments.HandleCreate)
	article.Post("/:articleId/comments/:commentId/thread", requireAuth,
		middleware.ValidateUUIDParams("articleId", "commentId"), s.Comments.HandleReply)

	users := router.Group("/users")
	users.Post("/signup", s.Auth.HandleSignup)
	users.Post("/login", s.Auth.HandleLogin)
	users.Get("/confirm/:token", s.Auth.HandleConfirm)
	users.Post("/forgot-password", s.Auth.HandleForgotPassword)
	users.Patch("/reset-password/:token", s.Auth.HandleResetPassword)
	users.Get("/auth/:provider", s.OAuth.HandleBegin)
	users.Get("/auth/:provider/callback", s.OAuth.HandleCallback)
}

package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/ManuelReschke/AuthorsHaven/internal/api/v1"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/env"
)

type ApiRouter struct {
	server *apiv1.Server
	// LimiterStorage shares the rate limit counters between instances. nil keeps them in memory.
	LimiterStorage fiber.Storage
	MaxRequests    int
	Window         time.Duration
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api",
		cors.New(cors.Config{
			AllowOrigins: env.GetEnv("CORS_ORIGINS", "*"),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-access-token",
		}),
		limiter.New(limiter.Config{
			Max:        h.MaxRequests,
			Expiration: h.Window,
			Storage:    h.LimiterStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": "Too many requests",
					"errors":  true,
				})
			},
		}),
	)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	apiv1.RegisterHandlers(api.Group("/v1"), h.server)
}

func NewApiRouter(server *apiv1.Server, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{
		server:         server,
		LimiterStorage: storage,
		MaxRequests:    env.GetEnvInt("API_RATE_LIMIT", 100),
		Window:         env.GetEnvDuration("API_RATE_WINDOW", time.Minute),
	}
}

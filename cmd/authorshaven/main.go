package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/AuthorsHaven/app/controllers"
	"github.com/ManuelReschke/AuthorsHaven/app/repository"
	apiv1 "github.com/ManuelReschke/AuthorsHaven/internal/api/v1"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/articles"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/auth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/cache"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/comments"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/database"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/env"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/jobqueue"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/mail"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/oauth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/router"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/security"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/session"
)

func main() {
	app, manager := NewApplication()
	manager.Start()

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "8080"))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	manager.Stop()
	if err := cache.Close(); err != nil {
		log.Warnf("closing redis: %v", err)
	}
}

// NewApplication wires storage, services and routes. The returned manager
// runs the background workers and must be started by the caller.
func NewApplication() (*fiber.App, *jobqueue.Manager) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	repos := repository.GetGlobalRepositories()
	redisClient := cache.GetClient()

	tokens, err := security.NewTokenIssuer(
		env.GetEnv("JWT_SECRET", ""),
		env.GetEnvDuration("JWT_TTL", 24*time.Hour),
		env.GetEnvDuration("RESET_TOKEN_TTL", time.Hour),
	)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	// background work: mail delivery and view counter flushes
	views := counter.NewArticleViews(redisClient, repos.Article)
	queue := jobqueue.NewQueue(redisClient, env.GetEnvInt("JOB_QUEUE_WORKERS", 3))
	smtpMailer := mail.NewSMTPMailerFromEnv()
	queue.Register(jobqueue.JobTypeSendEmail, mail.JobHandler(smtpMailer))
	manager := jobqueue.NewManager(queue, views.Flush, env.GetEnvDuration("VIEW_FLUSH_INTERVAL", 5*time.Second))

	var mailer mail.Mailer = mail.NewQueuedMailer(queue)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnf("[Mail] redis unavailable, sending mail directly: %v", err)
		mailer = smtpMailer
	}
	cancel()

	publicDomain := oauth.ConfigFromEnv().BaseURL
	authService := auth.NewService(repos.User, tokens, mailer, auth.Config{
		VerifyURL: env.GetEnv("VERIFY_URL", publicDomain+"/api/v1/users/confirm"),
		ResetURL:  env.GetEnv("RESET_URL", publicDomain+"/reset-password"),
	})

	server := &apiv1.Server{
		Articles: controllers.NewArticleController(articles.NewService(repos, views)),
		Comments: controllers.NewCommentController(comments.NewService(repos)),
		Auth:     controllers.NewAuthController(authService),
		OAuth: controllers.NewOAuthController(
			oauth.NewProviders(oauth.ConfigFromEnv()),
			authService,
			session.NewSessionStore(redisClient),
		),
		Verifier: tokens,
	}

	app := fiber.New(fiber.Config{
		AppName:   "Authors Haven",
		BodyLimit: 4 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, router.NewApiRouter(server, session.NewRedisStorage(redisClient, session.LimiterDatabase)))

	return app, manager
}

package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/env"
)

// Redis databases used next to the cache (DB 0)
const (
	SessionDatabase = 1
	LimiterDatabase = 2
)

var sessionStore *session.Store

// NewRedisStorage creates a fiber storage on the same server as client, using database db.
func NewRedisStorage(client *goredis.Client, db int) *redis.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client != nil {
		opts := client.Options()
		if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if opts.Password != "" {
			password = opts.Password
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: db,
		Reset:    false,
	})
}

// NewSessionStore creates the Redis-backed session store used for OAuth state.
func NewSessionStore(client *goredis.Client) *session.Store {
	sessionStore = session.New(session.Config{
		Storage:        NewRedisStorage(client, SessionDatabase),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     15 * time.Minute,
		KeyLookup:      "cookie:authorshaven_session",
	})
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// SetSessionValue stores a key-value pair in the caller's session
func SetSessionValue(store *session.Store, c *fiber.Ctx, key string, value string) error {
	if store == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a value by key from the caller's session
func GetSessionValue(store *session.Store, c *fiber.Ctx, key string) string {
	if store == nil {
		return ""
	}

	sess, err := store.Get(c)
	if err != nil {
		return ""
	}

	if value, ok := sess.Get(key).(string); ok {
		return value
	}
	return ""
}

// DeleteSessionValue removes key from the caller's session
func DeleteSessionValue(store *session.Store, c *fiber.Ctx, key string) error {
	if store == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Delete(key)
	return sess.Save()
}

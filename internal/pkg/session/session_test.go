package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValues(t *testing.T) {
	store := session.New()
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		return SetSessionValue(store, c, "k", "v")
	})
	app.Get("/get", func(c *fiber.Ctx) error {
		return c.SendString(GetSessionValue(store, c, "k"))
	})
	app.Get("/del", func(c *fiber.Ctx) error {
		return DeleteSessionValue(store, c, "k")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	get := func() string {
		req := httptest.NewRequest(http.MethodGet, "/get", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		buf := make([]byte, 16)
		n, _ := resp.Body.Read(buf)
		return string(buf[:n])
	}
	assert.Equal(t, "v", get())

	req := httptest.NewRequest(http.MethodGet, "/del", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "", get())
}

func TestNilStore(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Error(t, SetSessionValue(nil, c, "k", "v"))
		assert.Equal(t, "", GetSessionValue(nil, c, "k"))
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	session.UseStore(fibersession.New())
	t.Cleanup(func() { session.UseStore(nil) })

	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/login", func(c *fiber.Ctx) error {
		if err := session.Login(c, session.User{DiscordID: "42", Username: "dealer"}, "", nil); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	}
	app.Get("/page", RequireAuth, whoami)
	app.Get("/api", RequireAPISessionAuth, whoami)
	app.Get("/auth/discord/callback", whoami)
	return app
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get(fiber.HeaderLocation))
}

func TestRequireAPISessionAuth_Returns401(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not authenticated", body["message"])
}

func TestUserContextMiddleware_LoggedIn(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	for _, path := range []string{"/page", "/api"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)

		var u usercontext.UserContext
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
		assert.True(t, u.IsLoggedIn)
		assert.Equal(t, "42", u.DiscordID)
		assert.Equal(t, "dealer", u.Username)
	}

	// The OAuth callback never sees the dashboard session.
	req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	var u usercontext.UserContext
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	assert.False(t, u.IsLoggedIn)
}

package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"hr-pipeline/lib/session"
	authutils "hr-pipeline/lib/utils/auth-utils"
	sessionapimodels "hr-pipeline/models/api/session"
)

const secret = "test-secret"

func newApp(registry session.Provider) *fiber.App {
	app := fiber.New()
	app.Use(Authorization(secret), SessionRequired(registry))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetSession(ctx).UserName())
	})
	return app
}

func TestSessionRequired(t *testing.T) {
	registry := session.NewRegistry(nil, nil)
	sess := registry.Create(sessionapimodels.LoginRequest{UserName: "Anna", OrgEmail: "hr@acme.io", AccessToken: "a"})
	token, err := authutils.GetToken(sess.ID(), "Anna", secret, time.Hour)
	require.NoError(t, err)
	app := newApp(registry)

	t.Run("живая сессия", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run("токен в query", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me?token="+token, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run("без токена", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
	t.Run("завершенная сессия", func(t *testing.T) {
		sess.Revoke()
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(4))
	app.Post("/", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader("too long")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader("ok")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

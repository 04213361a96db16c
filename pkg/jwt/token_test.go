package jwtPkg_test

import (
	"net/http/httptest"
	"testing"
	"time"

	jwtPkg "ComputexChatbot/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		claims, err := jwtPkg.VerifyAdmin(c, secret)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(claims["sub"].(string))
	})
	return app
}

func call(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestVerifyAdmin(t *testing.T) {
	app := newApp()

	admin, _, err := jwtPkg.SignAdmin(secret, "ops", time.Hour)
	require.NoError(t, err)

	user, _, err := jwtPkg.Sign(secret, map[string]interface{}{"sub": "bob", "role": "user"}, time.Hour)
	require.NoError(t, err)

	expired, _, err := jwtPkg.SignAdmin(secret, "ops", -time.Minute)
	require.NoError(t, err)

	forged, _, err := jwtPkg.SignAdmin("other-secret", "ops", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, call(t, app, "Bearer "+admin))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, admin))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer "+user))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer "+expired))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer "+forged))
}

func TestSignRequiresSecret(t *testing.T) {
	_, _, err := jwtPkg.SignAdmin("", "ops", time.Hour)
	assert.Error(t, err)
}

package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "rahasia-test"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin", append(AdminOnly(secret, []string{"admin", "service_role"}), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocUserID).(string))
	})...)
	return app
}

func TestAdminOnly(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"wrong secret", sign(t, "lain", jwt.MapClaims{"sub": "u1", "role": "admin", "exp": exp}), fiber.StatusUnauthorized},
		{"expired", sign(t, secret, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"authenticated only", sign(t, secret, jwt.MapClaims{"sub": "u1", "role": "authenticated", "exp": exp}), fiber.StatusForbidden},
		{"app_metadata admin", sign(t, secret, jwt.MapClaims{"sub": "u1", "role": "authenticated", "app_metadata": map[string]any{"role": "admin"}, "exp": exp}), fiber.StatusOK},
		{"service role", sign(t, secret, jwt.MapClaims{"sub": "svc", "role": "service_role", "exp": exp}), fiber.StatusOK},
	}
	app := newApp()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRolesFromClaims(t *testing.T) {
	got := RolesFromClaims(jwt.MapClaims{
		"role":         "Authenticated",
		"app_metadata": map[string]any{"roles": []any{"editor", "admin"}, "role": "admin"},
	})
	assert.Equal(t, []string{"authenticated", "admin", "editor"}, got)
}

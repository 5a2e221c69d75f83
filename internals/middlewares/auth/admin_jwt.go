// internals/middlewares/auth/admin_jwt.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	LocUserID = "user_id"
	LocRoles  = "user_roles"
	LocClaims = "jwt_claims"
)

type AuthJWTOpts struct {
	Secret string
	// AllowCookieFallback: pakai cookie access_token jika tidak ada Bearer
	AllowCookieFallback bool
}

// AuthJWT memverifikasi token HS256 dari BaaS (Supabase) lalu mengisi Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)

	return func(c *fiber.Ctx) error {
		if secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Auth belum dikonfigurasi")
		}

		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals(LocClaims, claims)
		if sub := strClaim(claims, "sub"); sub != "" {
			c.Locals(LocUserID, sub)
		}
		c.Locals(LocRoles, RolesFromClaims(claims))
		return c.Next()
	}
}

// RolesFromClaims mengumpulkan role dari "role" (Supabase), app_metadata.role
// dan app_metadata.roles.
func RolesFromClaims(claims jwt.MapClaims) []string {
	seen := map[string]bool{}
	out := make([]string, 0, 2)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(strClaim(claims, "role"))
	if meta, ok := claims["app_metadata"].(map[string]any); ok {
		if r, ok := meta["role"].(string); ok {
			add(r)
		}
		for _, r := range readStringSlice(meta["roles"]) {
			add(r)
		}
	}
	return out
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// util: ubah nilai interface{} → []string (robust untuk []string atau []any)
func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		out = append(out, t...)
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

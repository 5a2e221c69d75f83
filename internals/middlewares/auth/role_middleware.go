package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireRole meloloskan request kalau salah satu role user ada di allowedRoles.
func RequireRole(allowedRoles []string) fiber.Handler {
	allowed := map[string]bool{}
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = true
	}
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(LocRoles).([]string)
		for _, r := range roles {
			if allowed[r] {
				return c.Next()
			}
		}
		log.Printf("[AUTH] ⛔ akses admin ditolak user=%v roles=%v path=%s", c.Locals(LocUserID), roles, c.Path())
		return fiber.NewError(fiber.StatusForbidden, "Akses hanya untuk admin")
	}
}

// AdminOnly = AuthJWT + RequireRole.
func AdminOnly(secret string, roles []string) []fiber.Handler {
	return []fiber.Handler{
		AuthJWT(AuthJWTOpts{Secret: secret}),
		RequireRole(roles),
	}
}

package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"sekolahku_backend/internals/helpers/reporter"
)

// RecoveryMiddleware menangkap panic, melaporkannya, lalu ErrorHandler membalas 500
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			reporter.Error(fmt.Errorf("panic: %v", e), map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
			})
		},
	})
}

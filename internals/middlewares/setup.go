package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global; urutan penting (recover paling luar).
// streamPaths dilewati oleh compress, etag dan timeout; multipart memakai UploadTimeout. Route admin tidak memakai
// etag middleware karena ETag di sana berisi version record (dipakai If-Match).
func SetupMiddlewares(app *fiber.App, cfg configs.Config, streamPaths ...string) {
	isStream := func(c *fiber.Ctx) bool {
		for _, p := range streamPaths {
			if c.Path() == p {
				return true
			}
		}
		return false
	}

	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(HTTPMetrics())
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault, Next: isStream})) // gzip
	app.Use(etag.New(etag.Config{Next: func(c *fiber.Ctx) bool {                         // 304 caching
		return isStream(c) || strings.HasPrefix(c.Path(), "/api/a/")
	}}))
	app.Use(GlobalRateLimiter())
	app.Use(RequestTimeout(
		durationOr(cfg.RequestTimeout, 5*time.Second),
		durationOr(cfg.UploadTimeout, 2*time.Minute),
		streamPaths...,
	))
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

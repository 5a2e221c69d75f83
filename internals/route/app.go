package routes

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	EventRoutes "sekolahku_backend/internals/features/events/route"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/middlewares"
	routeDetails "sekolahku_backend/internals/route/details"
)

// NewApp merakit Fiber app lengkap (config, middleware, route).
func NewApp(d routeDetails.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024 * 1024, // batch foto galeri
		ReadTimeout:           15 * time.Second,
		IdleTimeout:           90 * time.Second,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app, d.Config, EventRoutes.EventsPath)
	SetupRoutes(app, d)
	return app
}

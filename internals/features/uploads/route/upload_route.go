package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/uploads/controller"
	"sekolahku_backend/internals/helpers/storage"
	"sekolahku_backend/internals/middlewares"
)

func UploadAdminRoutes(r fiber.Router, files *storage.Gateway) {
	ctrl := controller.NewUploadController(files)
	r.Post("/uploads", middlewares.UploadRateLimiter(), ctrl.Upload)
}

// MemoryObjectRoutes menyajikan isi MemoryStore di /_objects/* (driver memory saja).
func MemoryObjectRoutes(app fiber.Router, store *storage.MemoryStore) {
	app.Get("/_objects/*", func(c *fiber.Ctx) error {
		data, ct, ok := store.Get(c.Params("*"))
		if !ok {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.Send(data)
	})
}

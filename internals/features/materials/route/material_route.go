package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/features/materials/controller"
	"sekolahku_backend/internals/helpers/storage"
	"sekolahku_backend/internals/middlewares"
)

func MaterialPublicRoutes(r fiber.Router, repo *repository.MaterialRepo, files *storage.Gateway) {
	ctrl := controller.NewMaterialController(repo, files)

	g := r.Group("/materials")
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id", ctrl.Get)
	g.Post("/:id/download", middlewares.DownloadRateLimiter(), ctrl.Download)
}

func MaterialAdminRoutes(r fiber.Router, repo *repository.MaterialRepo, files *storage.Gateway) {
	ctrl := controller.NewMaterialController(repo, files)

	g := r.Group("/materials")
	g.Get("/", ctrl.List)
	g.Post("/", middlewares.UploadRateLimiter(), ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

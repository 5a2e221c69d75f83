package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/gallery/controller"
	"sekolahku_backend/internals/features/gallery/service"
	"sekolahku_backend/internals/middlewares"
)

func GalleryPublicRoutes(r fiber.Router, svc *service.GalleryService) {
	ctrl := controller.NewGalleryController(svc)

	g := r.Group("/gallery/groups")
	g.Get("/", ctrl.ListGroups)
	g.Get("/:id", ctrl.GetGroup)
	g.Get("/:id/items", ctrl.ListItems)
}

func GalleryAdminRoutes(r fiber.Router, svc *service.GalleryService) {
	ctrl := controller.NewGalleryController(svc)

	g := r.Group("/gallery/groups")
	g.Get("/", ctrl.ListGroups)
	g.Post("/", middlewares.UploadRateLimiter(), ctrl.CreateGroup)
	g.Get("/:id", ctrl.GetGroup)
	g.Patch("/:id", ctrl.UpdateGroup)
	g.Delete("/:id", ctrl.DeleteGroup)

	g.Get("/:id/items", ctrl.ListItems)
	g.Post("/:id/photos", middlewares.UploadRateLimiter(), ctrl.AddPhotos)
	g.Patch("/:id/items/:itemId", ctrl.UpdateItem)
	g.Delete("/:id/items/:itemId", ctrl.DeleteItem)
}

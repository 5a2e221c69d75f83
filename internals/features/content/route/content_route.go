package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/controller"
	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/storage"
)

// ==========================
// 🌐 PUBLIC (read-only)
// ==========================
func ContentPublicRoutes(r fiber.Router, cat *repository.Catalog) {
	sections := controller.NewSectionController(cat, nil)
	r.Get("/sections/:name", sections.Get)

	readPublic(r.Group("/announcements"), controller.NewCRUDController(cat.Announcements))
	readPublic(r.Group("/facilities"), controller.NewCRUDController(cat.Facilities))
	readPublic(r.Group("/staff"), controller.NewCRUDController(cat.Staff))
	readPublic(r.Group("/leadership"), controller.NewCRUDController(cat.Leadership))
	readPublic(r.Group("/footer-sections"), controller.NewCRUDController(cat.Footer))
	readPublic(r.Group("/gallery/items"), controller.NewCRUDController(cat.GalleryItems))
}

// ==========================
// 🔐 ADMIN (CRUD)
// ==========================
func ContentAdminRoutes(r fiber.Router, cat *repository.Catalog, files *storage.Gateway) {
	sections := controller.NewSectionController(cat, files)
	r.Get("/sections/:name", sections.Get)
	r.Put("/sections/:name", sections.Put)

	crud(r.Group("/announcements"), controller.NewCRUDController(cat.Announcements))
	crud(r.Group("/footer-sections"), controller.NewCRUDController(cat.Footer))

	crud(r.Group("/facilities"), controller.NewCRUDController(cat.Facilities).
		WithFiles(files, func(f *model.SchoolFacility) []string { return []string{f.ImageURL} }))
	crud(r.Group("/staff"), controller.NewCRUDController(cat.Staff).
		WithFiles(files, func(s *model.StaffMember) []string { return []string{s.ImageURL} }))
	crud(r.Group("/leadership"), controller.NewCRUDController(cat.Leadership).
		WithFiles(files, func(l *model.Leader) []string { return []string{l.ImageURL} }))
	crud(r.Group("/gallery/items"), controller.NewCRUDController(cat.GalleryItems).
		WithFiles(files, func(g *model.GalleryItem) []string { return []string{g.ImageURL} }))
}

func readPublic[T any, PT repository.Model[T]](g fiber.Router, ctrl *controller.CRUDController[T, PT]) {
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id", ctrl.GetPublic)
}

func crud[T any, PT repository.Model[T]](g fiber.Router, ctrl *controller.CRUDController[T, PT]) {
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

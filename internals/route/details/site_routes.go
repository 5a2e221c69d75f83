package details

import (
	"github.com/gofiber/fiber/v2"

	ContentRoutes "sekolahku_backend/internals/features/content/route"
	DashboardRoutes "sekolahku_backend/internals/features/dashboard/route"
	EditorRoutes "sekolahku_backend/internals/features/editor/route"
	EventRoutes "sekolahku_backend/internals/features/events/route"
	GalleryRoutes "sekolahku_backend/internals/features/gallery/route"
	MaterialRoutes "sekolahku_backend/internals/features/materials/route"
	UploadRoutes "sekolahku_backend/internals/features/uploads/route"
)

// ✅ Route publik tanpa token (read-only)
// Contoh akses: /api/public/sections/hero
func SitePublicRoutes(api fiber.Router, d Deps) {
	ContentRoutes.ContentPublicRoutes(api, d.Catalog)
	GalleryRoutes.GalleryPublicRoutes(api, d.Gallery)
	MaterialRoutes.MaterialPublicRoutes(api, d.Catalog.Materials, d.Files)
	EventRoutes.EventsPublicRoutes(api, d.Bus)
}

// ✅ Route admin (JWT + role admin)
// Contoh akses: /api/a/announcements
func SiteAdminRoutes(api fiber.Router, d Deps) {
	ContentRoutes.ContentAdminRoutes(api, d.Catalog, d.Files)
	GalleryRoutes.GalleryAdminRoutes(api, d.Gallery)
	MaterialRoutes.MaterialAdminRoutes(api, d.Catalog.Materials, d.Files)
	UploadRoutes.UploadAdminRoutes(api, d.Files)
	DashboardRoutes.DashboardAdminRoutes(api, d.Stats)
	EditorRoutes.EditorAdminRoutes(api, d.Editor)
}

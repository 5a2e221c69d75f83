package details

import (
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/content/repository"
	dashboardService "sekolahku_backend/internals/features/dashboard/service"
	"sekolahku_backend/internals/features/editor/session"
	galleryService "sekolahku_backend/internals/features/gallery/service"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/helpers/storage"
)

// Deps berisi komponen yang dirakit di main lalu dibagikan ke semua route.
type Deps struct {
	DB      *gorm.DB
	Config  configs.Config
	Catalog *repository.Catalog
	Bus     *events.Bus
	Files   *storage.Gateway
	Memory  *storage.MemoryStore // hanya untuk STORAGE_DRIVER=memory
	Gallery *galleryService.GalleryService
	Stats   *dashboardService.StatsService
	Editor  *session.Manager
}

package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	UploadRoutes "sekolahku_backend/internals/features/uploads/route"
	"sekolahku_backend/internals/middlewares/auth"
	routeDetails "sekolahku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, d routeDetails.Deps) {
	startTime = time.Now()

	// ===================== BASE / OPS =====================
	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d.DB)

	if d.Memory != nil {
		log.Println("[INFO] Serving memory objects at /_objects ...")
		UploadRoutes.MemoryObjectRoutes(app, d.Memory)
	}

	// ===================== GROUPS =====================

	// PUBLIC → tanpa token
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// ADMIN → JWT BaaS + role admin
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a", auth.AdminOnly(d.Config.JWTSecret, d.Config.AdminRoles)...)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Site routes...")
	routeDetails.SitePublicRoutes(public, d)
	routeDetails.SiteAdminRoutes(admin, d)
}

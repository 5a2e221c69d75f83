package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/dashboard/controller"
	"sekolahku_backend/internals/features/dashboard/service"
)

func DashboardAdminRoutes(r fiber.Router, svc *service.StatsService) {
	ctrl := controller.NewStatsController(svc)
	r.Get("/dashboard/stats", ctrl.Summary)
}

package controller

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/dashboard/service"
	helper "sekolahku_backend/internals/helpers"
)

type StatsController struct {
	Svc *service.StatsService
}

func NewStatsController(svc *service.StatsService) *StatsController {
	return &StatsController{Svc: svc}
}

// GET /dashboard/stats
func (ctrl *StatsController) Summary(c *fiber.Ctx) error {
	sum, err := ctrl.Svc.Summary(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonOK(c, "", sum)
}

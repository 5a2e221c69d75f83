package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/editor/controller"
	"sekolahku_backend/internals/features/editor/session"
)

func EditorAdminRoutes(r fiber.Router, m *session.Manager) {
	ctrl := controller.NewEditorController(m)

	g := r.Group("/editor")
	g.Post("/:entity/sessions", ctrl.Open)

	s := g.Group("/sessions/:sid")
	s.Get("/", ctrl.Get)
	s.Post("/edit", ctrl.StartEdit)
	s.Patch("/draft", ctrl.Change)
	s.Post("/submit", ctrl.Submit)
	s.Post("/cancel", ctrl.Cancel)
	s.Post("/reload", ctrl.Reload)
	s.Delete("/", ctrl.Close)
}

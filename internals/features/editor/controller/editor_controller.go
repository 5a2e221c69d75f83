package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/features/editor/session"
	helper "sekolahku_backend/internals/helpers"
)

type EditorController struct {
	Sessions *session.Manager
}

func NewEditorController(m *session.Manager) *EditorController {
	return &EditorController{Sessions: m}
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotEditable):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.FromError(c, err)
}

type openRequest struct {
	ID string `json:"id"`
}

// =============================
// ➕ POST /editor/:entity/sessions
// =============================
func (ctrl *EditorController) Open(c *fiber.Ctx) error {
	var req openRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "body tidak valid")
		}
	}
	h, err := ctrl.Sessions.Open(c.UserContext(), c.Params("entity"), strings.TrimSpace(req.ID))
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "sesi editor dibuka", h.Info())
}

// =============================
// 🔍 GET /editor/sessions/:sid
// =============================
func (ctrl *EditorController) Get(c *fiber.Ctx) error {
	h, err := ctrl.Sessions.Get(c.Params("sid"))
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "", h.Info())
}

// step menjalankan satu transisi lalu mengembalikan state terbaru.
func (ctrl *EditorController) step(c *fiber.Ctx, msg string, fn func(*session.Handle) error) error {
	h, err := ctrl.Sessions.Get(c.Params("sid"))
	if err != nil {
		return fail(c, err)
	}
	if err := fn(h); err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, msg, h.Info())
}

func (ctrl *EditorController) StartEdit(c *fiber.Ctx) error {
	return ctrl.step(c, "mode edit", func(h *session.Handle) error {
		return h.Session.StartEdit()
	})
}

// PATCH .../draft: body = field yang diubah.
func (ctrl *EditorController) Change(c *fiber.Ctx) error {
	patch, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return ctrl.step(c, "draft diperbarui", func(h *session.Handle) error {
		return h.Session.Change(session.ApplyPatch(h.Writable, patch))
	})
}

func (ctrl *EditorController) Submit(c *fiber.Ctx) error {
	return ctrl.step(c, "perubahan disimpan", func(h *session.Handle) error {
		return h.Session.Submit(c.UserContext())
	})
}

func (ctrl *EditorController) Cancel(c *fiber.Ctx) error {
	return ctrl.step(c, "draft dibuang", func(h *session.Handle) error {
		return h.Session.Cancel()
	})
}

func (ctrl *EditorController) Reload(c *fiber.Ctx) error {
	return ctrl.step(c, "dimuat ulang", func(h *session.Handle) error {
		return h.Session.Load(c.UserContext())
	})
}

// =============================
// 🗑️ DELETE /editor/sessions/:sid
// =============================
func (ctrl *EditorController) Close(c *fiber.Ctx) error {
	sid := c.Params("sid")
	if err := ctrl.Sessions.Close(sid); err != nil {
		return fail(c, err)
	}
	return helper.JsonDeleted(c, "sesi editor ditutup", fiber.Map{"id": sid})
}

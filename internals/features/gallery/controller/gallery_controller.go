package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/features/gallery/service"
	helper "sekolahku_backend/internals/helpers"
)

// groupFormFields: field group yang dibaca dari form multipart.
var groupFormFields = []string{"title", "description", "category", "cover_image_url", "date_taken"}

type GalleryController struct {
	Svc *service.GalleryService
}

func NewGalleryController(svc *service.GalleryService) *GalleryController {
	return &GalleryController{Svc: svc}
}

// groupInput: JSON biasa atau multipart (field + files[]).
func groupInput(c *fiber.Ctx) (repository.Document, []service.Photo, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		doc, err := helper.ParseBody(c)
		return doc, nil, err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "form multipart tidak valid")
	}
	doc := repository.Document{}
	for _, k := range groupFormFields {
		if v := form.Value[k]; len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			doc[k] = strings.TrimSpace(v[0])
		}
	}
	files := form.File["files[]"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	return doc, service.PhotosFromHeaders(files), nil
}

// =============================
// 📄 GET /gallery/groups
// =============================
func (ctrl *GalleryController) ListGroups(c *fiber.Ctx) error {
	q, p := helper.ParseListQuery(c, helper.DefaultOpts)
	rows, total, err := ctrl.Svc.ListGroups(c.UserContext(), q)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPagination(total, p.Page, p.PerPage, rows))
}

// =============================
// 🔍 GET /gallery/groups/:id
// =============================
func (ctrl *GalleryController) GetGroup(c *fiber.Ctx) error {
	g, err := ctrl.Svc.GetGroup(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, g.Version)
	return helper.JsonOK(c, "", g)
}

// =============================
// 📄 GET /gallery/groups/:id/items
// =============================
func (ctrl *GalleryController) ListItems(c *fiber.Ctx) error {
	items, err := ctrl.Svc.ListItems(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", items)
}

// =============================
// ➕ POST /gallery/groups
// =============================
func (ctrl *GalleryController) CreateGroup(c *fiber.Ctx) error {
	doc, photos, err := groupInput(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := ctrl.Svc.CreateGroup(c.UserContext(), doc, photos)
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(photos) == 0 {
		return helper.JsonCreated(c, "group galeri dibuat", res)
	}
	return helper.JsonBatch(c, "group galeri dibuat", res.Batch.Succeeded, res.Batch.Failed, res)
}

// =============================
// ➕ POST /gallery/groups/:id/photos
// =============================
func (ctrl *GalleryController) AddPhotos(c *fiber.Ctx) error {
	_, photos, err := groupInput(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(photos) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "files[] wajib diisi")
	}
	res, err := ctrl.Svc.AddPhotos(c.UserContext(), c.Params("id"), photos)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonBatch(c, "foto ditambahkan", res.Succeeded, res.Failed, res)
}

// =============================
// 🔄 PATCH /gallery/groups/:id
// =============================
func (ctrl *GalleryController) UpdateGroup(c *fiber.Ctx) error {
	doc, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	expected, err := helper.ParseIfMatch(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	g, err := ctrl.Svc.UpdateGroup(c.UserContext(), c.Params("id"), doc, expected)
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, g.Version)
	return helper.JsonUpdated(c, "group galeri diperbarui", g)
}

// =============================
// 🗑️ DELETE /gallery/groups/:id (cascade)
// =============================
func (ctrl *GalleryController) DeleteGroup(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctrl.Svc.DeleteGroup(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "group galeri dihapus", fiber.Map{"id": id})
}

// =============================
// ✏️ PATCH/DELETE /gallery/groups/:id/items/:itemId
// =============================
func (ctrl *GalleryController) UpdateItem(c *fiber.Ctx) error {
	doc, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	expected, err := helper.ParseIfMatch(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	item, err := ctrl.Svc.UpdateItem(c.UserContext(), c.Params("id"), c.Params("itemId"), doc, expected)
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, item.Version)
	return helper.JsonUpdated(c, "foto diperbarui", item)
}

func (ctrl *GalleryController) DeleteItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	if err := ctrl.Svc.DeleteItem(c.UserContext(), c.Params("id"), itemID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "foto dihapus", fiber.Map{"id": itemID})
}

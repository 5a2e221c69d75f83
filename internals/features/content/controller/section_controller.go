package controller

import (
	"context"
	"slices"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/storage"
)

// SectionNames adalah section singleton yang boleh diakses lewat /sections/:name.
var SectionNames = []string{"hero", "about", "vision", "history"}

type SectionController struct {
	Catalog *repository.Catalog
	// Files nil di route publik; di admin dipakai membuang gambar yang diganti.
	Files *storage.Gateway
}

func NewSectionController(cat *repository.Catalog, files *storage.Gateway) *SectionController {
	return &SectionController{Catalog: cat, Files: files}
}

func (ctrl *SectionController) resource(c *fiber.Ctx) (repository.Resource, error) {
	name := c.Params("name")
	if !slices.Contains(SectionNames, name) {
		return nil, fiber.NewError(fiber.StatusNotFound, "section tidak dikenal: "+name)
	}
	res, ok := ctrl.Catalog.Resource(name)
	if !ok || !res.Singleton() {
		return nil, fiber.NewError(fiber.StatusNotFound, "section tidak dikenal: "+name)
	}
	return res, nil
}

// =============================
// 🔍 GET /sections/:name
// =============================
func (ctrl *SectionController) Get(c *fiber.Ctx) error {
	res, err := ctrl.resource(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	doc, err := res.FindDocument(c.UserContext(), model.SingletonID)
	if err != nil {
		return helper.FromError(c, err)
	}
	helper.SetETag(c, repository.VersionOf(doc))
	return helper.JsonOK(c, "", doc)
}

// =============================
// 🔄 PUT /sections/:name (upsert baris "main")
// =============================
func (ctrl *SectionController) Put(c *fiber.Ctx) error {
	res, err := ctrl.resource(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	doc, err := helper.ParseBody(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	expected, err := helper.ParseIfMatch(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	before, _ := res.FindDocument(ctx, model.SingletonID)
	out, err := res.PatchDocument(ctx, model.SingletonID, doc, expected)
	if err != nil {
		return helper.FromError(c, err)
	}
	if old := repository.ReplacedFiles(res.FileKeys(), before, out); ctrl.Files != nil && len(old) > 0 {
		ctrl.Files.RemoveQuietly(context.WithoutCancel(ctx), old...)
	}
	helper.SetETag(c, repository.VersionOf(out))
	return helper.JsonUpdated(c, res.Name()+" disimpan", out)
}

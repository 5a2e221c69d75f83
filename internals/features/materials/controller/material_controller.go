package controller

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	contentController "sekolahku_backend/internals/features/content/controller"
	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/storage"
)

// materialFormFields: field materi dari form multipart.
var materialFormFields = []string{"title", "description", "subject", "class_level", "file_type", "file_url"}

// materialLimits: dokumen umum + gambar, tanpa konversi.
var materialLimits = storage.Limits{AllowedTypes: []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/zip",
	"image/*",
}}

type MaterialController struct {
	*contentController.CRUDController[model.LearningMaterial, *model.LearningMaterial]
	Repo  *repository.MaterialRepo
	Files *storage.Gateway
}

func NewMaterialController(repo *repository.MaterialRepo, files *storage.Gateway) *MaterialController {
	crud := contentController.NewCRUDController(repo).
		WithFiles(files, func(m *model.LearningMaterial) []string { return []string{m.FileURL} })
	return &MaterialController{CRUDController: crud, Repo: repo, Files: files}
}

// =============================
// ➕ POST /materials (multipart file atau JSON file_url)
// =============================
func (ctrl *MaterialController) Create(c *fiber.Ctx) error {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return ctrl.CRUDController.Create(c)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "form multipart tidak valid")
	}
	doc := repository.Document{}
	for _, k := range materialFormFields {
		if v := form.Value[k]; len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			doc[k] = strings.TrimSpace(v[0])
		}
	}

	ctx := c.UserContext()
	var uploaded *storage.Uploaded
	if fhs := form.File["file"]; len(fhs) > 0 {
		uploaded, err = ctrl.Files.UploadHeader(ctx, fhs[0], "materials", materialLimits)
		if err != nil {
			return helper.FromError(c, err)
		}
		doc["file_url"] = uploaded.URL
		doc["file_size"] = uploaded.Size
		if _, ok := doc["file_type"]; !ok {
			doc["file_type"] = fileTypeOf(fhs[0].Filename)
		}
	}

	rec, err := ctrl.Repo.Create(ctx, doc)
	if err != nil {
		if uploaded != nil {
			ctrl.Files.RemoveQuietly(context.WithoutCancel(ctx), uploaded.URL)
		}
		return helper.FromError(c, err)
	}
	helper.SetETag(c, rec.Version)
	return helper.JsonCreated(c, "materi dibuat", rec)
}

// =============================
// ⬇️ POST /materials/:id/download
// =============================
func (ctrl *MaterialController) Download(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	rec, err := IncrementDownloads(ctx, ctrl.Repo, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"id":        rec.ID,
		"file_url":  rec.FileURL,
		"downloads": rec.Downloads,
	})
}

// IncrementDownloads menaikkan counter secara atomik di DB (version tidak naik).
func IncrementDownloads(ctx context.Context, repo *repository.MaterialRepo, id string) (*model.LearningMaterial, error) {
	res := repo.DB().WithContext(ctx).
		Model(&model.LearningMaterial{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if res.Error != nil {
		return nil, repo.Fail("download", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.Wrapf(repository.ErrNotFound, "materials/%s", id)
	}
	return repo.Get(ctx, id)
}

func fileTypeOf(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "file"
	}
	return ext
}

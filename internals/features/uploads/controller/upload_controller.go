package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/storage"
)

// allowedFolders: folder tujuan yang boleh diminta client.
var allowedFolders = map[string]bool{
	"hero": true, "about": true, "vision": true, "history": true,
	"gallery": true, "materials": true, "staff": true, "facilities": true,
	"leadership": true, "announcements": true, "footer": true, "misc": true,
}

type UploadController struct {
	Files *storage.Gateway
}

func NewUploadController(files *storage.Gateway) *UploadController {
	return &UploadController{Files: files}
}

// =============================
// ⬆️ POST /uploads (multipart: file, folder, max_mb?, webp?)
// =============================
func (ctrl *UploadController) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file wajib diisi")
	}

	folder := strings.Trim(strings.TrimSpace(c.FormValue("folder", "misc")), "/")
	root := strings.SplitN(folder, "/", 2)[0]
	if !allowedFolders[root] {
		return helper.JsonValidationError(c, map[string]string{"folder": "folder tidak diizinkan"})
	}

	var lim storage.Limits
	if raw := strings.TrimSpace(c.FormValue("max_mb")); raw != "" {
		mb, err := strconv.ParseFloat(raw, 64)
		n := int64(mb * 1024 * 1024)
		if err != nil || n < 1 {
			return helper.JsonValidationError(c, map[string]string{"max_mb": "harus angka, minimal 1 byte"})
		}
		// tidak boleh melebihi batas server
		if ceiling := ctrl.Files.Defaults().MaxBytes; ceiling <= 0 || n < ceiling {
			lim.MaxBytes = n
		}
	}
	lim.ConvertWebP, _ = strconv.ParseBool(c.FormValue("webp"))

	up, err := ctrl.Files.UploadHeader(c.UserContext(), fh, folder, lim)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "file diunggah", up)
}

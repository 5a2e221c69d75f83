package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 4, cfg.GalleryBatchConcurrency)
	assert.Equal(t, 30*time.Minute, cfg.EditorSessionTTL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.UploadTimeout)
	assert.Equal(t, []string{"admin", "service_role"}, cfg.AdminRoles)
	assert.Contains(t, cfg.Upload.AllowedTypes, "image/png")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("PORT", "8088")
	t.Setenv("STORAGE_DRIVER", "OSS")
	t.Setenv("UPLOAD_MAX_MB", "2")
	t.Setenv("UPLOAD_ALLOWED_TYPES", "image/png, application/pdf ,")
	t.Setenv("GALLERY_BATCH_CONCURRENCY", "0")
	t.Setenv("EDITOR_SESSION_TTL", "90s")
	t.Setenv("ADMIN_ROLES", "editor")

	cfg := Load()
	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, "oss", cfg.Storage.Driver)
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"image/png", "application/pdf"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, 1, cfg.GalleryBatchConcurrency)
	assert.Equal(t, 90*time.Second, cfg.EditorSessionTTL)
	assert.Equal(t, []string{"editor"}, cfg.AdminRoles)
}

package storage

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"sekolahku_backend/internals/configs"
)

// ObjectStore adalah backend penyimpanan object (OSS, S3, Supabase, memory).
type ObjectStore interface {
	Driver() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL gagal (ErrForeignURL) kalau URL bukan milik store ini.
	KeyFromURL(publicURL string) (string, error)
}

// NewStore memilih driver sesuai STORAGE_DRIVER.
func NewStore(cfg configs.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "oss":
		return NewOSSStore(cfg)
	case "s3":
		return NewS3Store(cfg)
	case "supabase":
		return NewSupabaseStore(cfg)
	case "memory", "":
		return NewMemoryStore(cfg.MemoryPublicBase), nil
	default:
		return nil, errors.Errorf("storage driver tidak dikenal: %q", cfg.Driver)
	}
}

// keyUnder memotong base dari URL; dipakai driver yang punya public base tetap.
func keyUnder(base, publicURL string) (string, error) {
	base = strings.TrimRight(base, "/") + "/"
	if base == "/" || !strings.HasPrefix(publicURL, base) {
		return "", errors.Wrapf(ErrForeignURL, "%s", publicURL)
	}
	key := strings.TrimPrefix(publicURL, base)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", errors.Wrapf(ErrForeignURL, "%s", publicURL)
	}
	return key, nil
}

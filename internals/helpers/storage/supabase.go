package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"sekolahku_backend/internals/configs"
)

// SupabaseStore memakai REST Supabase Storage (/storage/v1/object).
type SupabaseStore struct {
	projectURL string
	serviceKey string
	bucket     string
	client     *http.Client
}

func NewSupabaseStore(cfg configs.StorageConfig) (*SupabaseStore, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, errors.New("SUPABASE_PROJECT_URL atau SUPABASE_SERVICE_ROLE_KEY belum diset")
	}
	bucket := cfg.SupabaseBucket
	if bucket == "" {
		bucket = "public-assets"
	}
	return &SupabaseStore{
		projectURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (s *SupabaseStore) Driver() string { return "supabase" }

func (s *SupabaseStore) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, escapeKey(key))
}

func (s *SupabaseStore) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return errors.Errorf("supabase status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (s *SupabaseStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), r)
	if err != nil {
		return errors.Wrap(err, "gagal membuat request upload")
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=31536000")
	req.Header.Set("x-upsert", "false")
	return s.do(req)
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *SupabaseStore) publicBase() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s", s.projectURL, s.bucket)
}

func (s *SupabaseStore) PublicURL(key string) string {
	return s.publicBase() + "/" + escapeKey(key)
}

func (s *SupabaseStore) KeyFromURL(publicURL string) (string, error) {
	key, err := keyUnder(s.publicBase(), publicURL)
	if err != nil {
		return "", err
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

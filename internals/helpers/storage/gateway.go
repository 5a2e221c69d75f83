package storage

import (
	"bytes"
	"context"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/helpers/metrics"
)

var (
	ErrEmptyFile       = errors.New("file kosong")
	ErrFileTooLarge    = errors.New("ukuran file melebihi batas")
	ErrUnsupportedType = errors.New("tipe file tidak diizinkan")
	ErrStorage         = errors.New("penyimpanan file gagal")
	ErrForeignURL      = errors.New("url bukan milik storage ini")
)

// hardMaxBytes dipakai kalau default maupun Limits tidak memberi batas.
const hardMaxBytes = 50 << 20

// File adalah input upload; Size wajib diisi (dari header multipart).
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Limits per panggilan; field kosong memakai default gateway.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string // boleh "image/*"
	ConvertWebP  bool
}

type Uploaded struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Filename    string `json:"filename"`
}

// Gateway memvalidasi file lalu menulisnya ke ObjectStore.
// Kegagalan selalu dikembalikan ke pemanggil; tidak ada URL pengganti.
type Gateway struct {
	store    ObjectStore
	prefix   string
	defaults Limits
	webp     WebPOptions
	now      func() time.Time
}

func NewGateway(store ObjectStore, prefix string, defaults Limits, webp WebPOptions) *Gateway {
	return &Gateway{store: store, prefix: prefix, defaults: defaults, webp: webp, now: time.Now}
}

// NewGatewayFromConfig merakit store + gateway dari config.
func NewGatewayFromConfig(cfg configs.Config) (*Gateway, error) {
	store, err := NewStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	g := NewGateway(store, cfg.Storage.Prefix, Limits{
		MaxBytes:     cfg.Upload.MaxBytes,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}, WebPOptionsFromConfig(cfg.Upload))
	return g, nil
}

func (g *Gateway) Store() ObjectStore { return g.store }
func (g *Gateway) Defaults() Limits   { return g.defaults }

func (g *Gateway) resolve(lim Limits) Limits {
	if lim.MaxBytes <= 0 {
		lim.MaxBytes = g.defaults.MaxBytes
	}
	if lim.MaxBytes <= 0 {
		lim.MaxBytes = hardMaxBytes
	}
	if len(lim.AllowedTypes) == 0 {
		lim.AllowedTypes = g.defaults.AllowedTypes
	}
	return lim
}

// Check hanya memvalidasi ukuran dan tipe (tanpa membaca isi).
func (g *Gateway) Check(name, contentType string, size int64, lim Limits) error {
	lim = g.resolve(lim)
	if size <= 0 {
		return errors.Wrapf(ErrEmptyFile, "%s", name)
	}
	if size > lim.MaxBytes {
		return errors.Wrapf(ErrFileTooLarge, "%s: %d byte, maks %d byte", name, size, lim.MaxBytes)
	}
	ct := normalizeType(contentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = normalizeType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name))))
	}
	if ct != "" && ct != "application/octet-stream" && !typeAllowed(ct, lim.AllowedTypes) {
		return errors.Wrapf(ErrUnsupportedType, "%s (%s)", name, ct)
	}
	return nil
}

// Upload: validasi -> (opsional) webp -> nama unik -> Put -> URL publik.
// Validasi selesai sebelum store disentuh.
func (g *Gateway) Upload(ctx context.Context, f File, folder string, lim Limits) (*Uploaded, error) {
	lim = g.resolve(lim)
	if err := g.Check(f.Name, f.ContentType, f.Size, lim); err != nil {
		g.count("rejected")
		return nil, err
	}
	if f.Reader == nil {
		return nil, errors.Wrapf(ErrEmptyFile, "%s", f.Name)
	}

	// baca maksimal MaxBytes+1 supaya Size palsu tetap ketahuan
	data, err := io.ReadAll(io.LimitReader(f.Reader, lim.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "baca file")
	}
	if len(data) == 0 {
		g.count("rejected")
		return nil, errors.Wrapf(ErrEmptyFile, "%s", f.Name)
	}
	if int64(len(data)) > lim.MaxBytes {
		g.count("rejected")
		return nil, errors.Wrapf(ErrFileTooLarge, "%s: maks %d byte", f.Name, lim.MaxBytes)
	}

	ct := sniffType(f.Name, f.ContentType, data)
	if !typeAllowed(ct, lim.AllowedTypes) {
		g.count("rejected")
		return nil, errors.Wrapf(ErrUnsupportedType, "%s (%s)", f.Name, ct)
	}

	ext := ""
	if lim.ConvertWebP && convertibleImage[ct] {
		converted, err := toWebP(data, g.webp)
		if err != nil {
			g.count("rejected")
			return nil, err
		}
		data, ct, ext = converted, "image/webp", ".webp"
	}

	key := objectKey(g.prefix, folder, f.Name, ext, g.now())
	if err := g.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct); err != nil {
		g.count("failed")
		log.Printf("[UPLOAD] ❌ put %s (%s): %v", key, g.store.Driver(), err)
		return nil, errors.Wrapf(ErrStorage, "%s: %v", g.store.Driver(), err)
	}
	g.count("ok")
	metrics.UploadBytes.WithLabelValues(g.store.Driver()).Observe(float64(len(data)))

	return &Uploaded{
		URL:         g.store.PublicURL(key),
		Key:         key,
		ContentType: ct,
		Size:        int64(len(data)),
		Filename:    f.Name,
	}, nil
}

// UploadHeader membuka file multipart lalu Upload.
func (g *Gateway) UploadHeader(ctx context.Context, fh *multipart.FileHeader, folder string, lim Limits) (*Uploaded, error) {
	if fh == nil {
		return nil, errors.Wrap(ErrEmptyFile, "file header kosong")
	}
	// tolak lebih dulu tanpa membuka file
	if err := g.Check(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, lim); err != nil {
		g.count("rejected")
		return nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer src.Close()
	return g.Upload(ctx, File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      src,
	}, folder, lim)
}

// Remove menghapus object berdasarkan URL publiknya.
// URL dari luar storage (mis. link eksternal) -> ErrForeignURL.
func (g *Gateway) Remove(ctx context.Context, publicURL string) error {
	key, err := g.store.KeyFromURL(publicURL)
	if err != nil {
		return err
	}
	if err := g.store.Delete(ctx, key); err != nil {
		return errors.Wrapf(ErrStorage, "delete %s: %v", key, err)
	}
	return nil
}

// RemoveQuietly dipakai untuk bersih-bersih best effort.
func (g *Gateway) RemoveQuietly(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := g.Remove(ctx, u); err != nil && !errors.Is(err, ErrForeignURL) {
			log.Printf("[UPLOAD] ⚠️ gagal hapus %s: %v", u, err)
		}
	}
}

// Owns = URL ini hasil upload ke store kita.
func (g *Gateway) Owns(publicURL string) bool {
	_, err := g.store.KeyFromURL(publicURL)
	return err == nil
}

func (g *Gateway) count(outcome string) {
	metrics.Uploads.WithLabelValues(g.store.Driver(), outcome).Inc()
}

func normalizeType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

// sniffType: tipe yang dideklarasikan, kecuali kosong/generik -> sniff isi.
func sniffType(name, declared string, data []byte) string {
	ct := normalizeType(declared)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct = normalizeType(http.DetectContentType(head))
	if ct == "application/octet-stream" || ct == "text/plain" {
		if byExt := normalizeType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); byExt != "" {
			return byExt
		}
	}
	return ct
}

func typeAllowed(ct string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		a = normalizeType(a)
		if a == ct || a == "*/*" {
			return true
		}
		if strings.HasSuffix(a, "/*") && strings.HasPrefix(ct, strings.TrimSuffix(a, "*")) {
			return true
		}
	}
	return false
}

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// objectKey: folder/<slug>_<YYYYMMDD_HHMMSS>_<6 hex>.<ext>
func objectKey(prefix, folder, filename, ext string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := fmt.Sprintf("%s_%s_%s%s", slugify(base), now.Format("20060102_150405"), randHex(3), ext)
	return joinKey(prefix, cleanFolder(folder), name)
}

func joinKey(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}

// cleanFolder membuang "..", spasi dan karakter aneh dari nama folder.
func cleanFolder(folder string) string {
	folder = path.Clean("/" + strings.ReplaceAll(folder, "\\", "/"))
	segs := strings.Split(strings.Trim(folder, "/"), "/")
	out := segs[:0]
	for _, s := range segs {
		if strings.TrimSpace(s) != "" {
			out = append(out, slugify(s))
		}
	}
	return strings.Join(out, "/")
}

// slugify: huruf kecil ascii, angka dan '-'; aksen dibuang ("Kegiatan Ç" -> "kegiatan-c").
func slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > 60 {
		out = strings.TrimRight(out[:60], "-")
	}
	if out == "" {
		return "file"
	}
	return out
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

package storage

import (
	"bytes"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"sekolahku_backend/internals/configs"
)

type WebPOptions struct {
	MaxW        int     // batas lebar (resize keep-aspect)
	MaxH        int     // batas tinggi
	TargetKB    int     // 0 = pakai Quality saja
	Quality     float32 // default 80
	MinQ        float32 // batas bawah binary search
	MaxQ        float32
	ToleranceKB int
}

func WebPOptionsFromConfig(c configs.UploadConfig) WebPOptions {
	return WebPOptions{
		MaxW:        c.WebPMaxW,
		MaxH:        c.WebPMaxH,
		TargetKB:    c.WebPTargetKB,
		Quality:     c.WebPQuality,
		MinQ:        45,
		MaxQ:        85,
		ToleranceKB: 8,
	}
}

// convertibleImage: format yang bisa didecode lalu di-encode ulang ke webp.
var convertibleImage = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// toWebP: decode (orientasi EXIF dibetulkan) -> downscale -> encode webp.
func toWebP(data []byte, opt WebPOptions) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	if isWebP(data) {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedType, "gambar tidak bisa dibaca: "+err.Error())
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	return encodeWebP(img, opt)
}

func isWebP(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}

// Resize keep aspect pakai CatmullRom.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// encodeWebP: TargetKB > 0 -> binary search quality sampai <= target+tol.
func encodeWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	encodeQ := func(q float32) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
			return nil, errors.Wrap(err, "encode webp")
		}
		return buf.Bytes(), nil
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	if opt.TargetKB <= 0 {
		return encodeQ(q)
	}

	target := opt.TargetKB * 1024
	tol := opt.ToleranceKB * 1024
	if tol <= 0 {
		tol = 8 * 1024
	}
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= 0 {
		high = 85
	}
	if low > high {
		low, high = high, low
	}
	floor := low

	var best []byte
	for i := 0; i < 7; i++ {
		mid := (low + high) / 2
		data, err := encodeQ(mid)
		if err != nil {
			return nil, err
		}
		if len(data) <= target+tol {
			best = data
			low = mid // masih muat, coba kualitas lebih tinggi
		} else {
			high = mid
		}
	}
	if best == nil {
		return encodeQ(floor)
	}
	return best, nil
}

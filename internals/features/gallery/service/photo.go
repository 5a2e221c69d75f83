package service

import (
	"bytes"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Photo adalah satu file foto dalam batch upload.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Title       string
	AltText     string
	Open        func() (io.ReadCloser, error)
}

func (p Photo) title() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return strings.TrimSuffix(p.Filename, filepath.Ext(p.Filename))
}

// PhotosFromHeaders membungkus files[] dari form multipart.
func PhotosFromHeaders(fhs []*multipart.FileHeader) []Photo {
	out := make([]Photo, 0, len(fhs))
	for _, fh := range fhs {
		fh := fh
		out = append(out, Photo{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}

// PhotoFromBytes untuk seed dan test.
func PhotoFromBytes(name, contentType string, data []byte) Photo {
	return Photo{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

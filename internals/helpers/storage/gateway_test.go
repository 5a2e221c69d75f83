package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/configs"
)

const mb = 1024 * 1024

var allowed = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

func newGateway() (*Gateway, *MemoryStore) {
	store := NewMemoryStore("https://cdn.sekolah.test/o")
	g := NewGateway(store, "", Limits{MaxBytes: 10 * mb, AllowedTypes: allowed}, WebPOptions{MaxW: 64, MaxH: 64, Quality: 75})
	g.now = func() time.Time { return time.Date(2024, 7, 17, 9, 30, 5, 0, time.UTC) }
	return g, store
}

// countingReader mencatat apakah isi file pernah dibaca.
type countingReader struct {
	r     *bytes.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestUploadWithinCeiling(t *testing.T) {
	g, store := newGateway()

	data := bytes.Repeat([]byte{0x89}, 2*mb)
	up, err := g.Upload(context.Background(), File{
		Name: "Foto Upacara.png", ContentType: "image/png", Size: int64(len(data)), Reader: bytes.NewReader(data),
	}, "gallery", Limits{})
	require.NoError(t, err)

	assert.NotEmpty(t, up.URL)
	assert.True(t, strings.HasPrefix(up.URL, "https://cdn.sekolah.test/o/gallery/foto-upacara_20240717_093005_"))
	assert.Equal(t, int64(2*mb), up.Size)
	assert.Equal(t, 1, store.Puts())

	stored, ct, ok := store.Get(up.Key)
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Len(t, stored, 2*mb)
}

func TestUploadTooLargeRejectedBeforeStore(t *testing.T) {
	g, store := newGateway()
	store.FailPut = func(string) error {
		t.Fatal("store tidak boleh dipanggil")
		return nil
	}

	src := &countingReader{r: bytes.NewReader(make([]byte, 15*mb))}
	_, err := g.Upload(context.Background(), File{
		Name: "besar.png", ContentType: "image/png", Size: 15 * mb, Reader: src,
	}, "gallery", Limits{MaxBytes: 10 * mb})

	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, src.reads)
	assert.Zero(t, store.Puts())
}

func TestUploadLyingSizeStillRejected(t *testing.T) {
	g, store := newGateway()
	data := make([]byte, 3*mb)
	_, err := g.Upload(context.Background(), File{
		Name: "kecil.pdf", ContentType: "application/pdf", Size: 1024, Reader: bytes.NewReader(data),
	}, "materials", Limits{MaxBytes: 2 * mb})
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, store.Puts())
}

func TestUploadRejectsTypeAndEmpty(t *testing.T) {
	g, store := newGateway()
	ctx := context.Background()

	_, err := g.Upload(ctx, File{Name: "x.exe", ContentType: "application/x-msdownload", Size: 10, Reader: strings.NewReader("MZ........")}, "misc", Limits{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// tipe generik -> di-sniff dari isi
	_, err = g.Upload(ctx, File{Name: "catatan", ContentType: "application/octet-stream", Size: 5, Reader: strings.NewReader("halo!")}, "misc", Limits{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = g.Upload(ctx, File{Name: "kosong.png", ContentType: "image/png", Size: 0, Reader: strings.NewReader("")}, "misc", Limits{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Zero(t, store.Puts())
}

func TestUploadStoreFailurePropagates(t *testing.T) {
	g, store := newGateway()
	store.FailPut = func(string) error { return errors.New("bucket penuh") }

	up, err := g.Upload(context.Background(), File{
		Name: "a.pdf", ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("%PDF"),
	}, "materials", Limits{})
	assert.Nil(t, up)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestUploadConvertsToWebP(t *testing.T) {
	g, store := newGateway()

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	up, err := g.Upload(context.Background(), File{
		Name: "sampul.png", ContentType: "image/png", Size: int64(buf.Len()), Reader: bytes.NewReader(buf.Bytes()),
	}, "gallery/groups", Limits{ConvertWebP: true})
	require.NoError(t, err)

	assert.Equal(t, "image/webp", up.ContentType)
	assert.True(t, strings.HasSuffix(up.Key, ".webp"))
	data, _, ok := store.Get(up.Key)
	require.True(t, ok)
	assert.True(t, isWebP(data))
}

func TestRemove(t *testing.T) {
	g, store := newGateway()
	ctx := context.Background()

	up, err := g.Upload(ctx, File{Name: "a.pdf", ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("%PDF")}, "materials", Limits{})
	require.NoError(t, err)
	assert.True(t, g.Owns(up.URL))

	require.NoError(t, g.Remove(ctx, up.URL))
	assert.Zero(t, store.Len())

	err = g.Remove(ctx, "https://drive.google.com/file/abc")
	assert.ErrorIs(t, err, ErrForeignURL)
	assert.False(t, g.Owns("https://drive.google.com/file/abc"))
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	key := objectKey("", "../Gallery Groups/", "Foto Kegiatan Ç 2024!.JPG", "", now)
	assert.Regexp(t, regexp.MustCompile(`^gallery-groups/foto-kegiatan-c-2024_20240102_030405_[0-9a-f]{6}\.jpg$`), key)

	key = objectKey("sekolahku", "", "....", ".webp", now)
	assert.Regexp(t, regexp.MustCompile(`^sekolahku/file_20240102_030405_[0-9a-f]{6}\.webp$`), key)
}

func TestTypeAllowed(t *testing.T) {
	assert.True(t, typeAllowed("image/gif", []string{"image/*"}))
	assert.True(t, typeAllowed("application/pdf", nil))
	assert.False(t, typeAllowed("text/html", []string{"image/*", "application/pdf"}))
}

func TestGatewayFromConfigMemory(t *testing.T) {
	g, err := NewGatewayFromConfig(configs.Config{
		Storage: configs.StorageConfig{Driver: "memory", MemoryPublicBase: "http://localhost:3000/_objects"},
		Upload:  configs.UploadConfig{MaxBytes: 2 * mb, AllowedTypes: []string{"application/pdf"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "memory", g.Store().Driver())
	assert.Equal(t, int64(2*mb), g.Defaults().MaxBytes)

	up, err := g.Upload(context.Background(), File{Name: "jadwal.pdf", Size: 4, Reader: strings.NewReader("%PDF")}, "misc", Limits{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.URL, "http://localhost:3000/_objects/misc/jadwal_"))
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/testkit"
)

func newManager(t *testing.T) (*Manager, *repository.Catalog) {
	t.Helper()
	cat := repository.NewCatalog(testkit.OpenDB(t), events.Nop{})
	return NewManager(cat, time.Minute), cat
}

func TestEditorSingletonFromScratch(t *testing.T) {
	m, cat := newManager(t)
	ctx := context.Background()

	h, err := m.Open(ctx, "hero", "")
	require.NoError(t, err)
	assert.Equal(t, "main", h.RecordID)
	assert.Equal(t, StateViewing, h.Session.State())

	require.NoError(t, h.Session.StartEdit())
	require.NoError(t, h.Session.Change(ApplyPatch(h.Writable, repository.Document{"title": "Selamat Datang"})))
	require.NoError(t, h.Session.Submit(ctx))

	rec, err := cat.Hero.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Selamat Datang", rec.Title)
	assert.Equal(t, int64(1), h.Info().Version)
}

func TestEditorStaleDraftConflict(t *testing.T) {
	m, cat := newManager(t)
	ctx := context.Background()

	a, err := cat.Announcements.Create(ctx, repository.Document{"title": "Rapat", "content": "Jumat", "category": "umum"})
	require.NoError(t, err)

	h, err := m.Open(ctx, "announcements", a.ID)
	require.NoError(t, err)
	require.NoError(t, h.Session.StartEdit())
	require.NoError(t, h.Session.Change(ApplyPatch(h.Writable, repository.Document{"title": "Rapat Guru"})))

	// admin lain menyimpan duluan
	_, err = cat.Announcements.Update(ctx, a.ID, repository.Document{"content": "Sabtu"}, nil)
	require.NoError(t, err)

	err = h.Session.Submit(ctx)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, StateEditing, h.Session.State())
	assert.Equal(t, "Rapat Guru", h.Info().Draft.Clone()["title"])

	// buang draft, muat ulang, edit lagi
	require.NoError(t, h.Session.Cancel())
	require.NoError(t, h.Session.Load(ctx))
	require.NoError(t, h.Session.StartEdit())
	require.NoError(t, h.Session.Change(ApplyPatch(h.Writable, repository.Document{"title": "Rapat Guru"})))
	require.NoError(t, h.Session.Submit(ctx))

	got, err := cat.Announcements.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rapat Guru", got.Title)
	assert.Equal(t, "Sabtu", got.Content)
}

func TestEditorRejectsServerKeys(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	h, err := m.Open(ctx, "about", "")
	require.NoError(t, err)
	require.NoError(t, h.Session.StartEdit())

	err = h.Session.Change(ApplyPatch(h.Writable, repository.Document{"version": 99}))
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestEditorOpenUnknown(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Open(ctx, "nilai-rapor", "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	h, err := m.Open(ctx, "staff", "tidak-ada")
	require.NoError(t, err)
	assert.Equal(t, StateError, h.Session.State())
	assert.ErrorIs(t, h.Session.Err(), repository.ErrNotFound)
}

func TestManagerTTL(t *testing.T) {
	m, _ := newManager(t)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	h, err := m.Open(context.Background(), "vision", "")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = m.Get(h.ID)
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, err = m.Get(h.ID)
	require.NoError(t, err, "Get memperpanjang umur sesi")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	_, err = m.Get(h.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestChangedKeys(t *testing.T) {
	base := repository.Document{"id": "main", "title": "A", "highlights": []any{"x"}, "version": float64(2)}
	draft := base.Clone()
	draft["title"] = "B"
	draft["highlights"] = []any{"x"}
	draft["version"] = float64(7)

	got := ChangedKeys(base, draft, map[string]bool{"title": true, "highlights": true})
	assert.Equal(t, repository.Document{"title": "B"}, got)
}

type recordingRemover struct{ removed []string }

func (r *recordingRemover) RemoveQuietly(_ context.Context, urls ...string) {
	r.removed = append(r.removed, urls...)
}

func TestEditorRefusesGalleryEntities(t *testing.T) {
	m, cat := newManager(t)
	ctx := context.Background()

	item, err := cat.GroupItems.CreateWith(ctx, repository.Document{"image_url": "https://cdn.test/a.webp"},
		func(it *model.GalleryGroupItem) { it.GroupID = "g1" })
	require.NoError(t, err)

	_, err = m.Open(ctx, "gallery-group-items", item.ID)
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = m.Open(ctx, "gallery-groups", "g1")
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.Zero(t, m.Len())

	got, err := cat.GroupItems.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GroupID)
}

func TestEditorSubmitRemovesReplacedImage(t *testing.T) {
	m, cat := newManager(t)
	files := &recordingRemover{}
	m.WithFiles(files)
	ctx := context.Background()

	s, err := cat.Staff.Create(ctx, repository.Document{"name": "Pak Budi", "position": "Guru", "image_url": "https://cdn.test/lama.webp"})
	require.NoError(t, err)

	h, err := m.Open(ctx, "staff", s.ID)
	require.NoError(t, err)
	require.NoError(t, h.Session.StartEdit())
	require.NoError(t, h.Session.Change(ApplyPatch(h.Writable, repository.Document{"position": "Kepala Sekolah"})))
	require.NoError(t, h.Session.Submit(ctx))
	assert.Empty(t, files.removed)

	require.NoError(t, h.Session.StartEdit())
	require.NoError(t, h.Session.Change(ApplyPatch(h.Writable, repository.Document{"image_url": "https://cdn.test/baru.webp"})))
	require.NoError(t, h.Session.Submit(ctx))
	assert.Equal(t, []string{"https://cdn.test/lama.webp"}, files.removed)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/testkit"
)

func newCatalog(t *testing.T) (*Catalog, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	return NewCatalog(testkit.OpenDB(t), bus), bus
}

func ptr[T any](v T) *T { return &v }

func TestCreateThenGetRoundTrip(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	in := Document{
		"title":    "Jadwal Ujian",
		"content":  "Lihat https://example.com",
		"category": "exam",
		"type":     "urgent",
	}
	created, err := c.Announcements.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.NotNil(t, created.PublishedAt)

	got, err := c.Announcements.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jadwal Ujian", got.Title)
	assert.Equal(t, "Lihat https://example.com", got.Content)
	assert.Equal(t, "exam", got.Category)
	assert.Equal(t, "urgent", got.Type)
}

func TestCreateAppliesDefaults(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	a, err := c.Announcements.Create(ctx, Document{"title": "Libur", "content": "x", "category": "umum"})
	require.NoError(t, err)
	assert.Equal(t, model.AnnouncementTypeInfo, a.Type)

	s, err := c.Staff.Create(ctx, Document{"name": "Bu Sari", "position": "Guru"})
	require.NoError(t, err)
	assert.True(t, s.IsActive)

	hidden, err := c.Staff.Create(ctx, Document{"name": "Pak Budi", "position": "Guru", "is_active": false})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)
}

func TestCreateValidation(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		doc    Document
		fields []string
	}{
		{"missing required", Document{"title": "Foto"}, []string{"image_url", "category"}},
		{"blank title", Document{"title": "  ", "image_url": "https://cdn.test/a.webp", "category": "x"}, []string{"title"}},
		{"unknown key", Document{"title": "Foto", "colour": "red"}, []string{"colour"}},
		{"server key", Document{"id": "abc", "version": 9}, []string{"id", "version"}},
		{"wrong type", Document{"title": 12, "image_url": "https://cdn.test/a.webp", "category": "x"}, []string{"body"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.GalleryItems.Create(ctx, tc.doc)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	f, err := c.Facilities.Create(ctx, Document{"name": "Perpustakaan"})
	require.NoError(t, err)

	first, err := c.Facilities.Update(ctx, f.ID, Document{"display_order": 3}, nil)
	require.NoError(t, err)
	second, err := c.Facilities.Update(ctx, f.ID, Document{"display_order": 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, first.DisplayOrder)
	assert.Equal(t, 3, second.DisplayOrder)
	assert.Equal(t, first.Version, second.Version)

	got, err := c.Facilities.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DisplayOrder)
	assert.Equal(t, "Perpustakaan", got.Name)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateOnlyTouchesGivenKeys(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	about, err := c.About.Upsert(ctx, model.SingletonID, Document{
		"title":      "Tentang Kami",
		"content":    "Sekolah berdiri sejak 1985",
		"highlights": []any{"Akreditasi A", "Lab lengkap"},
	}, nil)
	require.NoError(t, err)

	updated, err := c.About.Update(ctx, about.ID, Document{"highlights": []any{"Akreditasi A+", "Juara OSN"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sekolah berdiri sejak 1985", updated.Content)
	assert.Equal(t, []string{"Akreditasi A+", "Juara OSN"}, []string(updated.Highlights))
	assert.Equal(t, int64(2), updated.Version)
}

func TestSingletonLastWriteWins(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	_, err := c.Hero.Upsert(ctx, model.SingletonID, Document{"title": "Selamat Datang"}, nil)
	require.NoError(t, err)
	_, err = c.Hero.Upsert(ctx, model.SingletonID, Document{"title": "Penerimaan Siswa Baru"}, nil)
	require.NoError(t, err)

	got, err := c.Hero.Get(ctx, model.SingletonID)
	require.NoError(t, err)
	assert.Equal(t, "Penerimaan Siswa Baru", got.Title)

	n, err := c.Hero.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSingletonCreateUsesFixedID(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	v, err := c.Vision.Create(ctx, Document{"title": "Visi", "missions": []any{"Disiplin"}})
	require.NoError(t, err)
	assert.Equal(t, model.SingletonID, v.ID)

	_, err = c.Vision.Create(ctx, Document{"title": "Visi 2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStaleVersionIsConflict(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	h, err := c.History.Upsert(ctx, model.SingletonID, Document{"title": "Sejarah"}, nil)
	require.NoError(t, err)

	_, err = c.History.Update(ctx, h.ID, Document{"content": "versi admin A"}, ptr(h.Version))
	require.NoError(t, err)

	_, err = c.History.Update(ctx, h.ID, Document{"content": "versi admin B"}, ptr(h.Version))
	require.ErrorIs(t, err, ErrConflict)

	got, err := c.History.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "versi admin A", got.Content)
}

func TestUpsertWithVersionOnMissingRow(t *testing.T) {
	c, _ := newCatalog(t)
	_, err := c.Hero.Upsert(context.Background(), model.SingletonID, Document{"title": "x"}, ptr(int64(4)))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetAndDeleteNotFound(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	_, err := c.Leadership.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Leadership.Delete(ctx, "nope"), ErrNotFound)
	_, err = c.Leadership.Update(ctx, "nope", Document{"name": "x"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersSearchAndPaging(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	for i, title := range []string{"Ujian Tengah", "Ujian Akhir", "Pentas Seni"} {
		cat := "exam"
		if i == 2 {
			cat = "event"
		}
		_, err := c.Announcements.Create(ctx, Document{"title": title, "content": "-", "category": cat})
		require.NoError(t, err)
	}

	rows, total, err := c.Announcements.List(ctx, ListQuery{Filters: map[string]string{"category": "exam"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = c.Announcements.List(ctx, ListQuery{Search: "pentas"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Pentas Seni", rows[0].Title)

	rows, total, err = c.Announcements.List(ctx, ListQuery{SortBy: "title", SortOrder: "asc", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pentas Seni", rows[0].Title)
	assert.Equal(t, "Ujian Akhir", rows[1].Title)

	_, _, err = c.Announcements.List(ctx, ListQuery{Filters: map[string]string{"content": "-"}})
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = c.Announcements.List(ctx, ListQuery{SortBy: "content"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListActiveOnly(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	_, err := c.Staff.Create(ctx, Document{"name": "A", "position": "Guru", "display_order": 2})
	require.NoError(t, err)
	_, err = c.Staff.Create(ctx, Document{"name": "B", "position": "Guru", "display_order": 1})
	require.NoError(t, err)
	_, err = c.Staff.Create(ctx, Document{"name": "C", "position": "Guru", "is_active": false})
	require.NoError(t, err)

	rows, total, err := c.Staff.List(ctx, ListQuery{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "B", rows[0].Name)
	assert.Equal(t, "A", rows[1].Name)
}

func TestDownloadsIsReadOnly(t *testing.T) {
	c, _ := newCatalog(t)
	_, err := c.Materials.Create(context.Background(), Document{
		"title": "Modul", "subject": "IPA", "class_level": "7",
		"file_url": "https://cdn.test/m.pdf", "downloads": 100,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "downloads")
}

func TestFooterContentValidation(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{"links ok", Document{"title": "Tautan", "section_type": "links", "content": map[string]any{
			"links": []any{map[string]any{"label": "PPDB", "url": "/ppdb"}},
		}}, false},
		{"links bad url", Document{"title": "Tautan", "section_type": "links", "content": map[string]any{
			"links": []any{map[string]any{"label": "PPDB", "url": "ppdb"}},
		}}, true},
		{"contact empty", Document{"title": "Kontak", "section_type": "contact", "content": map[string]any{}}, true},
		{"contact ok", Document{"title": "Kontak", "section_type": "contact", "content": map[string]any{"phone": "021-123"}}, false},
		{"social wrong shape", Document{"title": "Sosmed", "section_type": "social", "content": map[string]any{"links": []any{}}}, true},
		{"custom ok", Document{"title": "Info", "section_type": "custom", "content": map[string]any{"text": "Buka 07.00"}}, false},
		{"unknown type", Document{"title": "X", "section_type": "banner", "content": map[string]any{"text": "x"}}, true},
		{"missing content", Document{"title": "X", "section_type": "custom"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Footer.Create(ctx, tc.doc)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	c, bus := newCatalog(t)
	ctx := context.Background()
	sub := bus.Subscribe(TopicFooter)
	defer sub.Close()

	f, err := c.Footer.Create(ctx, Document{"title": "Kontak", "section_type": "contact", "content": map[string]any{"email": "tu@sekolah.sch.id"}})
	require.NoError(t, err)
	_, err = c.Footer.Update(ctx, f.ID, Document{"display_order": 2}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Footer.Delete(ctx, f.ID))

	want := []events.Action{events.ActionCreated, events.ActionUpdated, events.ActionDeleted}
	for _, action := range want {
		select {
		case e := <-sub.C:
			assert.Equal(t, action, e.Action)
			assert.Equal(t, f.ID, e.ID)
			assert.Equal(t, "footer-sections", e.Entity)
		case <-time.After(time.Second):
			t.Fatalf("event %s tidak diterima", action)
		}
	}
}

func TestResourceDocuments(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	res, ok := c.Resource("hero")
	require.True(t, ok)
	assert.True(t, res.Singleton())

	doc, err := res.PatchDocument(ctx, model.SingletonID, Document{"title": "Halo"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Halo", doc["title"])
	assert.Equal(t, int64(1), VersionOf(doc))

	got, err := res.FindDocument(ctx, model.SingletonID)
	require.NoError(t, err)
	assert.Equal(t, "Halo", got["title"])
	assert.True(t, res.WritableKeys()["cta_url"])
	assert.False(t, res.WritableKeys()["version"])

	_, ok = c.Resource("nope")
	assert.False(t, ok)
	assert.Contains(t, c.Names(), "footer-sections")
}

func TestGetActiveHidesInactive(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	on, err := c.Staff.Create(ctx, Document{"name": "Pak Budi", "position": "Guru"})
	require.NoError(t, err)
	off, err := c.Staff.Create(ctx, Document{"name": "Bu Ani", "position": "Guru", "is_active": false})
	require.NoError(t, err)

	got, err := c.Staff.GetActive(ctx, on.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi", got.Name)

	_, err = c.Staff.GetActive(ctx, off.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// entitas tanpa kolom aktif -> sama dengan Get
	a, err := c.Announcements.Create(ctx, Document{"title": "Libur", "content": "-", "category": "umum"})
	require.NoError(t, err)
	_, err = c.Announcements.GetActive(ctx, a.ID)
	assert.NoError(t, err)
}

func TestGroupIDAssignedByServerOnly(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	_, err := c.GroupItems.Create(ctx, Document{"group_id": "g1", "image_url": "https://cdn.test/a.webp"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "group_id")

	item, err := c.GroupItems.CreateWith(ctx, Document{"image_url": "https://cdn.test/a.webp"},
		func(it *model.GalleryGroupItem) { it.GroupID = "g1" })
	require.NoError(t, err)
	assert.Equal(t, "g1", item.GroupID)

	_, err = c.GroupItems.Update(ctx, item.ID, Document{"group_id": "g2"}, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, c.GroupItems.WritableKeys()["group_id"])
	assert.True(t, c.GroupItems.Managed())
	assert.False(t, c.Staff.Managed())
}

func TestReplacedFiles(t *testing.T) {
	keys := []string{"image_url", "background_image_url"}
	before := Document{"image_url": "https://cdn.test/a.webp", "background_image_url": "https://cdn.test/bg.webp", "title": "x"}

	after := Document{"image_url": "https://cdn.test/b.webp", "background_image_url": "https://cdn.test/bg.webp", "title": "y"}
	assert.Equal(t, []string{"https://cdn.test/a.webp"}, ReplacedFiles(keys, before, after))

	after = Document{"image_url": "", "background_image_url": "https://cdn.test/bg.webp"}
	assert.Equal(t, []string{"https://cdn.test/a.webp"}, ReplacedFiles(keys, before, after))

	assert.Empty(t, ReplacedFiles(keys, before, before))
	assert.Empty(t, ReplacedFiles(keys, nil, after))
}

package service

import (
	"context"
	"database/sql"
	"log"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/helpers/metrics"
	"sekolahku_backend/internals/helpers/storage"
)

// photoLimits: hanya gambar, dikonversi ke webp.
var photoLimits = storage.Limits{AllowedTypes: []string{"image/*"}, ConvertWebP: true}

// ItemOutcome adalah hasil satu foto dalam batch (Item atau Error terisi).
type ItemOutcome struct {
	Index    int                     `json:"index"`
	Filename string                  `json:"filename"`
	Item     *model.GalleryGroupItem `json:"item,omitempty"`
	Error    string                  `json:"error,omitempty"`

	err error
}

func (o ItemOutcome) Err() error { return o.err }

// BatchResult: manifest per foto; baris yang sudah masuk tidak di-rollback.
type BatchResult struct {
	Items     []ItemOutcome `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

type GroupWithCount struct {
	model.GalleryGroup
	ItemCount int64 `json:"item_count"`
}

type GroupResult struct {
	Group *model.GalleryGroup `json:"group"`
	Batch *BatchResult        `json:"batch"`
}

type GalleryService struct {
	db          *gorm.DB
	groups      *repository.GalleryGroupRepo
	items       *repository.GroupItemRepo
	files       *storage.Gateway
	concurrency int
}

func NewGalleryService(cat *repository.Catalog, files *storage.Gateway, concurrency int) *GalleryService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &GalleryService{
		db:          cat.GalleryGroups.DB(),
		groups:      cat.GalleryGroups,
		items:       cat.GroupItems,
		files:       files,
		concurrency: concurrency,
	}
}

// =============================
// ➕ Group + foto
// =============================

// CreateGroup membuat group lalu mengunggah foto-fotonya.
func (s *GalleryService) CreateGroup(ctx context.Context, doc repository.Document, photos []Photo) (*GroupResult, error) {
	if doc != nil {
		// cover diisi otomatis dari foto pertama yang sukses
		if v, ok := doc["cover_image_url"].(string); ok && strings.TrimSpace(v) == "" {
			delete(doc, "cover_image_url")
		}
	}
	group, err := s.groups.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	batch, err := s.AddPhotos(ctx, group.ID, photos)
	if err != nil {
		return nil, err
	}
	// ambil ulang supaya cover & version terbaru ikut
	if fresh, err := s.groups.Get(ctx, group.ID); err == nil {
		group = fresh
	}
	return &GroupResult{Group: group, Batch: batch}, nil
}

// AddPhotos mengunggah + insert foto ke group yang sudah ada secara paralel
// (maks s.concurrency sekaligus). Gagal per foto dicatat di manifest.
func (s *GalleryService) AddPhotos(ctx context.Context, groupID string, photos []Photo) (*BatchResult, error) {
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{Items: make([]ItemOutcome, len(photos))}
	if len(photos) == 0 {
		return res, nil
	}

	base, err := s.nextOrder(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, p := range photos {
		i, p := i, p
		g.Go(func() error {
			item, err := s.addOne(ctx, groupID, base+i, p)
			out := ItemOutcome{Index: i, Filename: p.Filename, Item: item, err: err}
			if err != nil {
				out.Error = err.Error()
			}
			res.Items[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var cover string
	for _, o := range res.Items {
		if o.err != nil {
			res.Failed++
			metrics.BatchItems.WithLabelValues("failed").Inc()
			continue
		}
		res.Succeeded++
		metrics.BatchItems.WithLabelValues("ok").Inc()
		if cover == "" {
			cover = o.Item.ImageURL
		}
	}
	log.Printf("[GALLERY] 📸 group=%s batch=%d ok=%d gagal=%d", groupID, len(photos), res.Succeeded, res.Failed)

	if group.CoverImageURL == "" && cover != "" {
		if _, err := s.groups.Update(ctx, groupID, repository.Document{"cover_image_url": cover}, nil); err != nil {
			log.Printf("[GALLERY] ⚠️ gagal set cover group=%s: %v", groupID, err)
		}
	}
	return res, nil
}

func (s *GalleryService) addOne(ctx context.Context, groupID string, order int, p Photo) (*model.GalleryGroupItem, error) {
	if err := s.files.Check(p.Filename, p.ContentType, p.Size, photoLimits); err != nil {
		return nil, err
	}
	if p.Open == nil {
		return nil, errors.Wrapf(storage.ErrEmptyFile, "%s", p.Filename)
	}
	src, err := p.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", p.Filename)
	}
	defer src.Close()

	up, err := s.files.Upload(ctx, storage.File{
		Name:        p.Filename,
		ContentType: p.ContentType,
		Size:        p.Size,
		Reader:      src,
	}, "gallery/"+groupID, photoLimits)
	if err != nil {
		return nil, err
	}

	// group_id read-only untuk client, diisi di sini
	item, err := s.items.CreateWith(ctx, repository.Document{
		"title":         p.title(),
		"image_url":     up.URL,
		"alt_text":      p.AltText,
		"display_order": order,
	}, func(it *model.GalleryGroupItem) { it.GroupID = groupID })
	if err != nil {
		// object tanpa baris = sampah
		s.files.RemoveQuietly(context.WithoutCancel(ctx), up.URL)
		return nil, err
	}
	return item, nil
}

func (s *GalleryService) nextOrder(ctx context.Context, groupID string) (int, error) {
	var top sql.NullInt64
	err := s.db.WithContext(ctx).
		Model(&model.GalleryGroupItem{}).
		Where("group_id = ?", groupID).
		Select("MAX(display_order)").
		Row().
		Scan(&top)
	if err != nil {
		return 0, s.items.Fail("max_order", err)
	}
	if !top.Valid {
		return 0, nil
	}
	return int(top.Int64) + 1, nil
}

// =============================
// 🗑️ Cascade delete
// =============================

// DeleteGroup menghapus item lalu group dalam satu transaksi.
// Object di storage dihapus best effort setelah commit.
func (s *GalleryService) DeleteGroup(ctx context.Context, id string) error {
	var (
		urls    []string
		itemIDs []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.GalleryGroup
		if err := tx.Where("id = ?", id).Take(&group).Error; err != nil {
			return err
		}
		var items []model.GalleryGroupItem
		if err := tx.Where("group_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			itemIDs = append(itemIDs, it.ID)
			urls = append(urls, it.ImageURL)
		}
		if group.CoverImageURL != "" {
			urls = append(urls, group.CoverImageURL)
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GalleryGroupItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.GalleryGroup{}).Error
	})
	if err != nil {
		return s.groups.Fail("delete_cascade", err)
	}

	for _, itemID := range itemIDs {
		s.items.Notify(itemID, events.ActionDeleted)
	}
	s.groups.Notify(id, events.ActionDeleted)
	log.Printf("[GALLERY] 🗑️ group=%s dihapus beserta %d item", id, len(itemIDs))

	s.files.RemoveQuietly(context.WithoutCancel(ctx), dedupe(urls)...)
	return nil
}

// =============================
// 📄 Read
// =============================

// ListGroups mengembalikan group beserta jumlah fotonya.
func (s *GalleryService) ListGroups(ctx context.Context, q repository.ListQuery) ([]GroupWithCount, int64, error) {
	groups, total, err := s.groups.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]GroupWithCount, len(groups))
	if len(groups) == 0 {
		return out, total, nil
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	var rows []struct {
		GroupID string
		N       int64
	}
	err = s.db.WithContext(ctx).
		Model(&model.GalleryGroupItem{}).
		Select("group_id, COUNT(*) AS n").
		Where("group_id IN ?", ids).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, s.items.Fail("count_by_group", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.GroupID] = r.N
	}
	for i, g := range groups {
		out[i] = GroupWithCount{GalleryGroup: g, ItemCount: counts[g.ID]}
	}
	return out, total, nil
}

func (s *GalleryService) GetGroup(ctx context.Context, id string) (*GroupWithCount, error) {
	g, err := s.groups.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.GalleryGroupItem{}).Where("group_id = ?", id).Count(&n).Error; err != nil {
		return nil, s.items.Fail("count", err)
	}
	return &GroupWithCount{GalleryGroup: *g, ItemCount: n}, nil
}

// ListItems: foto dalam group, urut display_order.
func (s *GalleryService) ListItems(ctx context.Context, groupID string) ([]model.GalleryGroupItem, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	items, _, err := s.items.List(ctx, repository.ListQuery{Filters: map[string]string{"group_id": groupID}})
	return items, err
}

// UpdateGroup: patch metadata group. Cover lama dibuang kalau bukan foto milik group.
func (s *GalleryService) UpdateGroup(ctx context.Context, id string, doc repository.Document, expected *int64) (*model.GalleryGroup, error) {
	old, err := s.groups.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := s.groups.Update(ctx, id, doc, expected)
	if err != nil {
		return nil, err
	}
	if old.CoverImageURL != "" && old.CoverImageURL != g.CoverImageURL {
		var n int64
		err := s.db.WithContext(ctx).
			Model(&model.GalleryGroupItem{}).
			Where("image_url = ?", old.CoverImageURL).
			Count(&n).Error
		if err != nil {
			log.Printf("[GALLERY] ⚠️ cek cover lama group=%s: %v", id, err)
		} else if n == 0 {
			s.files.RemoveQuietly(context.WithoutCancel(ctx), old.CoverImageURL)
		}
	}
	return g, nil
}

// =============================
// ✏️ Item tunggal
// =============================

func (s *GalleryService) itemInGroup(ctx context.Context, groupID, itemID string) (*model.GalleryGroupItem, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.GroupID != groupID {
		return nil, errors.Wrapf(repository.ErrNotFound, "item %s bukan milik group %s", itemID, groupID)
	}
	return item, nil
}

// UpdateItem tidak mengizinkan pindah group.
func (s *GalleryService) UpdateItem(ctx context.Context, groupID, itemID string, doc repository.Document, expected *int64) (*model.GalleryGroupItem, error) {
	old, err := s.itemInGroup(ctx, groupID, itemID)
	if err != nil {
		return nil, err
	}
	if v, ok := doc["group_id"]; ok {
		if v != groupID {
			return nil, &repository.ValidationError{Fields: map[string]string{"group_id": "item tidak boleh dipindah group"}}
		}
		doc = doc.Clone()
		delete(doc, "group_id")
	}
	item, err := s.items.Update(ctx, itemID, doc, expected)
	if err != nil {
		return nil, err
	}
	if old.ImageURL != item.ImageURL {
		s.files.RemoveQuietly(context.WithoutCancel(ctx), old.ImageURL)
	}
	return item, nil
}

func (s *GalleryService) DeleteItem(ctx context.Context, groupID, itemID string) error {
	item, err := s.itemInGroup(ctx, groupID, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.files.RemoveQuietly(context.WithoutCancel(ctx), item.ImageURL)
	return nil
}

// =============================
// 🧹 Orphan
// =============================

// SweepOrphans menghapus item yang group-nya sudah tidak ada.
func (s *GalleryService) SweepOrphans(ctx context.Context) (int, error) {
	var orphans []model.GalleryGroupItem
	err := s.db.WithContext(ctx).
		Where("group_id NOT IN (?)", s.db.Model(&model.GalleryGroup{}).Select("id")).
		Find(&orphans).Error
	if err != nil {
		return 0, s.items.Fail("find_orphans", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	ids := make([]string, len(orphans))
	urls := make([]string, len(orphans))
	for i, o := range orphans {
		ids[i] = o.ID
		urls[i] = o.ImageURL
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.GalleryGroupItem{})
	if res.Error != nil {
		return 0, s.items.Fail("delete_orphans", res.Error)
	}
	for _, id := range ids {
		s.items.Notify(id, events.ActionDeleted)
	}
	s.files.RemoveQuietly(ctx, dedupe(urls)...)
	return int(res.RowsAffected), nil
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

package service

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"sekolahku_backend/internals/features/content/model"
	"sekolahku_backend/internals/features/content/repository"
)

// Summary: jumlah baris per tabel; tiap angka diambil terpisah (bukan snapshot).
type Summary struct {
	Announcements     int64     `json:"announcements"`
	GalleryItems      int64     `json:"gallery_items"`
	GalleryGroups     int64     `json:"gallery_groups"`
	GalleryGroupItems int64     `json:"gallery_group_items"`
	LearningMaterials int64     `json:"learning_materials"`
	MaterialDownloads int64     `json:"material_downloads"`
	Staff             int64     `json:"staff"`
	Facilities        int64     `json:"facilities"`
	Leadership        int64     `json:"leadership"`
	FooterSections    int64     `json:"footer_sections"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type StatsService struct {
	cat *repository.Catalog
	now func() time.Time
}

func NewStatsService(cat *repository.Catalog) *StatsService {
	return &StatsService{cat: cat, now: time.Now}
}

// Summary menjalankan semua hitungan paralel; satu gagal = semuanya gagal.
func (s *StatsService) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	g, gctx := errgroup.WithContext(ctx)

	counts := []struct {
		repo counter
		dst  *int64
	}{
		{s.cat.Announcements, &out.Announcements},
		{s.cat.GalleryItems, &out.GalleryItems},
		{s.cat.GalleryGroups, &out.GalleryGroups},
		{s.cat.GroupItems, &out.GalleryGroupItems},
		{s.cat.Materials, &out.LearningMaterials},
		{s.cat.Staff, &out.Staff},
		{s.cat.Facilities, &out.Facilities},
		{s.cat.Leadership, &out.Leadership},
		{s.cat.Footer, &out.FooterSections},
	}
	for _, c := range counts {
		c := c
		g.Go(func() error {
			n, err := c.repo.Count(gctx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	g.Go(func() error {
		n, err := s.downloads(gctx)
		if err != nil {
			return err
		}
		out.MaterialDownloads = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.GeneratedAt = s.now()
	return &out, nil
}

func (s *StatsService) downloads(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := s.cat.Materials.DB().WithContext(ctx).
		Model(&model.LearningMaterial{}).
		Select("SUM(downloads)").
		Row().
		Scan(&total)
	if err != nil {
		return 0, s.cat.Materials.Fail("sum_downloads", err)
	}
	return total.Int64, nil
}

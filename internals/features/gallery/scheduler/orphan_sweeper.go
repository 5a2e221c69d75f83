package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sekolahku_backend/internals/features/gallery/service"
)

// StartOrphanSweeper menjadwalkan pembersihan foto yatim (group sudah tidak ada).
// Cron dikembalikan supaya main bisa Stop() saat shutdown.
func StartOrphanSweeper(svc *service.GalleryService, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		n, err := svc.SweepOrphans(ctx)
		if err != nil {
			log.Printf("[ORPHAN-SWEEPER] error: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[ORPHAN-SWEEPER] %d foto yatim dihapus", n)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[ORPHAN-SWEEPER] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

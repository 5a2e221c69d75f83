package seeds

import (
	"context"
	"log"
	"time"

	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/seeds/sections"
)

func RunAllSeeds(cat *repository.Catalog, dir string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	//* Section singleton
	n, err := sections.SeedSectionsFromDir(ctx, cat, dir)
	if err != nil {
		log.Printf("❌ Seed section gagal: %v", err)
		return
	}
	log.Printf("🌱 Seed selesai: %d section dibuat", n)
}

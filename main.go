package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
	"sekolahku_backend/internals/features/content/repository"
	dashboardService "sekolahku_backend/internals/features/dashboard/service"
	"sekolahku_backend/internals/features/editor/session"
	galleryScheduler "sekolahku_backend/internals/features/gallery/scheduler"
	galleryService "sekolahku_backend/internals/features/gallery/service"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/helpers/reporter"
	"sekolahku_backend/internals/helpers/storage"
	routes "sekolahku_backend/internals/route"
	routeDetails "sekolahku_backend/internals/route/details"
	"sekolahku_backend/internals/seeds"
)

func main() {
	cfg := configs.Load()

	host, _ := os.Hostname()
	reporter.Init(cfg.RollbarToken, cfg.AppEnv, host)
	defer reporter.Flush()

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("❌ DB error: %v", err)
	}
	database.TunePool(db)
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	database.WarmUpQueries(db)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 📣 event bus (+ bridge Redis kalau dikonfigurasi)
	bus := events.NewBus()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		bridge := events.NewRedisBridge(bus, rdb, cfg.EventsChannel)
		log.Printf("[EVENTS] 🔗 bridge redis channel=%s instance=%s", cfg.EventsChannel, bridge.InstanceID())
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Printf("[EVENTS] ⚠️ bridge redis berhenti: %v", err)
			}
		}()
	}

	cat := repository.NewCatalog(db, bus)

	// 🗂️ storage
	files, err := storage.NewGatewayFromConfig(cfg)
	if err != nil {
		log.Fatalf("❌ Storage error: %v", err)
	}
	log.Printf("✅ Storage driver: %s", files.Store().Driver())
	mem, _ := files.Store().(*storage.MemoryStore)

	gallery := galleryService.NewGalleryService(cat, files, cfg.GalleryBatchConcurrency)
	editors := session.NewManager(cat, cfg.EditorSessionTTL).WithFiles(files)
	go editors.Run(ctx)

	if cfg.SeedOnStart {
		seeds.RunAllSeeds(cat, cfg.SeedDir)
	}

	// ⏱ scheduler setelah DB siap
	sweeper, err := galleryScheduler.StartOrphanSweeper(gallery, cfg.OrphanSweepCron)
	if err != nil {
		log.Fatalf("❌ Orphan sweeper: %v", err)
	}

	app := routes.NewApp(routeDetails.Deps{
		DB:      db,
		Config:  cfg,
		Catalog: cat,
		Bus:     bus,
		Files:   files,
		Memory:  mem,
		Gallery: gallery,
		Stats:   dashboardService.NewStatsService(cat),
		Editor:  editors,
	})

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	stop()
	<-sweeper.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"sekolahku_backend/internals/configs"
	contentModel "sekolahku_backend/internals/features/content/model"
)

var DB *gorm.DB

// BuildDSN memakai DATABASE_URL kalau ada, selain itu dirakit dari DB_*.
func BuildDSN(cfg configs.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sekolahku&options=%s",
		url.QueryEscape(cfg.DBUser),
		url.QueryEscape(cfg.DBPassword),
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
		url.QueryEscape(fmt.Sprintf("-c statement_timeout=%d", cfg.DBStatementTimeoutMS)),
	)
}

func ConnectDB(cfg configs.Config) (*gorm.DB, error) {
	log.Println("🔌 Koneksi ke PostgreSQL (Supabase)...")

	level := gormLogger.Warn
	if cfg.AppEnv == "development" {
		level = gormLogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  BuildDSN(cfg),
		PreferSimpleProtocol: true, // PgBouncer (transaction pooling)
	}), &gorm.Config{Logger: configs.NewGormLogger(level), TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	DB = db
	log.Println("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	// Sesuaikan dengan limit Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		var n int64
		if err := db.Model(&contentModel.HeroSection{}).Count(&n).Error; err != nil {
			log.Printf("warm-up query err: %v", err)
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Models adalah daftar tabel konten yang dikelola service ini.
func Models() []any {
	return []any{
		&contentModel.HeroSection{},
		&contentModel.AboutSection{},
		&contentModel.VisionSection{},
		&contentModel.HistorySection{},
		&contentModel.Announcement{},
		&contentModel.GalleryItem{},
		&contentModel.GalleryGroup{},
		&contentModel.GalleryGroupItem{},
		&contentModel.LearningMaterial{},
		&contentModel.StaffMember{},
		&contentModel.SchoolFacility{},
		&contentModel.Leader{},
		&contentModel.FooterSection{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

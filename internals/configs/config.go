package configs

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Config dirakit sekali di main lalu dioper ke komponen yang butuh.
type Config struct {
	AppEnv string
	Port   string

	DatabaseURL          string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBSSLMode            string
	DBStatementTimeoutMS int

	JWTSecret   string
	AdminRoles  []string
	CorsOrigins []string

	Storage StorageConfig
	Upload  UploadConfig

	GalleryBatchConcurrency int
	OrphanSweepCron         string

	RedisAddr     string
	RedisPassword string
	EventsChannel string

	EditorSessionTTL time.Duration
	RequestTimeout   time.Duration
	// UploadTimeout dipakai request multipart (batch foto + WebP bisa lama).
	UploadTimeout time.Duration

	RollbarToken string
	SeedOnStart  bool
	SeedDir      string
}

type StorageConfig struct {
	Driver string // oss | s3 | supabase | memory
	Prefix string

	OSSEndpoint      string
	OSSAccessKey     string
	OSSSecretKey     string
	OSSSecurityToken string
	OSSBucket        string
	OSSPublicBase    string

	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3PublicBase string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	MemoryPublicBase string
}

type UploadConfig struct {
	MaxBytes     int64
	AllowedTypes []string

	WebPMaxW     int
	WebPMaxH     int
	WebPQuality  float32
	WebPTargetKB int
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env tidak ditemukan, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load membaca .env (jika ada) lalu ENV proses, dengan default dari viper.
func Load() Config {
	LoadEnv()

	v := viper.New()
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "require")
	v.SetDefault("db_statement_timeout_ms", 3000)
	v.SetDefault("admin_roles", "admin,service_role")
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("storage_driver", "memory")
	v.SetDefault("storage_prefix", "")
	v.SetDefault("supabase_bucket", "public-assets")
	v.SetDefault("memory_public_base", "http://localhost:3000/_objects")
	v.SetDefault("upload_max_mb", 10)
	v.SetDefault("upload_allowed_types", "image/jpeg,image/png,image/webp,image/gif,application/pdf")
	v.SetDefault("image_webp_max_w", 1600)
	v.SetDefault("image_webp_max_h", 1600)
	v.SetDefault("image_webp_quality", 80)
	v.SetDefault("image_webp_target_kb", 0)
	v.SetDefault("gallery_batch_concurrency", 4)
	v.SetDefault("orphan_sweep_cron", "15 2 * * *")
	v.SetDefault("events_channel", "sekolahku:content-events")
	v.SetDefault("editor_session_ttl", "30m")
	v.SetDefault("request_timeout", "5s")
	v.SetDefault("upload_timeout", "2m")
	v.SetDefault("seed_on_start", false)
	v.SetDefault("seed_dir", "internals/seeds/sections")
	v.AutomaticEnv()

	cfg := Config{
		AppEnv:               v.GetString("app_env"),
		Port:                 v.GetString("port"),
		DatabaseURL:          v.GetString("database_url"),
		DBHost:               v.GetString("db_host"),
		DBPort:               v.GetString("db_port"),
		DBUser:               v.GetString("db_user"),
		DBPassword:           v.GetString("db_password"),
		DBName:               v.GetString("db_name"),
		DBSSLMode:            v.GetString("db_sslmode"),
		DBStatementTimeoutMS: v.GetInt("db_statement_timeout_ms"),

		JWTSecret:   v.GetString("jwt_secret"),
		AdminRoles:  splitCSV(v.GetString("admin_roles")),
		CorsOrigins: splitCSV(v.GetString("cors_origins")),

		Storage: StorageConfig{
			Driver:             strings.ToLower(v.GetString("storage_driver")),
			Prefix:             v.GetString("storage_prefix"),
			OSSEndpoint:        v.GetString("ali_oss_endpoint"),
			OSSAccessKey:       v.GetString("ali_oss_access_key"),
			OSSSecretKey:       v.GetString("ali_oss_secret_key"),
			OSSSecurityToken:   v.GetString("ali_oss_security_token"),
			OSSBucket:          v.GetString("ali_oss_bucket"),
			OSSPublicBase:      v.GetString("ali_oss_public_base"),
			S3Region:           v.GetString("aws_region"),
			S3Bucket:           v.GetString("aws_s3_bucket"),
			S3AccessKey:        v.GetString("aws_access_key_id"),
			S3SecretKey:        v.GetString("aws_secret_access_key"),
			S3Endpoint:         v.GetString("aws_s3_endpoint"),
			S3PublicBase:       v.GetString("aws_s3_public_base"),
			SupabaseURL:        v.GetString("supabase_project_url"),
			SupabaseServiceKey: v.GetString("supabase_service_role_key"),
			SupabaseBucket:     v.GetString("supabase_bucket"),
			MemoryPublicBase:   v.GetString("memory_public_base"),
		},
		Upload: UploadConfig{
			MaxBytes:     v.GetInt64("upload_max_mb") * 1024 * 1024,
			AllowedTypes: splitCSV(v.GetString("upload_allowed_types")),
			WebPMaxW:     v.GetInt("image_webp_max_w"),
			WebPMaxH:     v.GetInt("image_webp_max_h"),
			WebPQuality:  float32(v.GetFloat64("image_webp_quality")),
			WebPTargetKB: v.GetInt("image_webp_target_kb"),
		},

		GalleryBatchConcurrency: v.GetInt("gallery_batch_concurrency"),
		OrphanSweepCron:         v.GetString("orphan_sweep_cron"),

		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		EventsChannel: v.GetString("events_channel"),

		EditorSessionTTL: v.GetDuration("editor_session_ttl"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		UploadTimeout:    v.GetDuration("upload_timeout"),

		RollbarToken: v.GetString("rollbar_token"),
		SeedOnStart:  v.GetBool("seed_on_start"),
		SeedDir:      v.GetString("seed_dir"),
	}

	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset! Route admin akan menolak semua request.")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	if cfg.GalleryBatchConcurrency <= 0 {
		cfg.GalleryBatchConcurrency = 1
	}
	return cfg
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(level gormLogger.LogLevel) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

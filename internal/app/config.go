package app

import (
	"strings"
	"time"

	"github.com/yungbote/petlabel-backend/internal/data/db"
	"github.com/yungbote/petlabel-backend/internal/platform/envutil"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string

	DB db.Config

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisChannelPrefix string

	NotifyBreakerThreshold int
	NotifyBreakerCooldown  time.Duration

	ObjectStorageMode    string
	RawBucket            string
	ProcessedBucket      string
	GCSCredentialsFile   string
	StoragePublicBaseURL string
	SignedURLTTL         time.Duration
	UploadURLTTL         time.Duration
	StorageEventsToken   string

	ActivityUploadLimit int
	ActivityLabelLimit  int
	ActivityFeedLimit   int

	LabelSubmissionAtomic bool
	WriteTimeout          time.Duration
	WriteFanout           int

	MetricsEnabled    bool
	DashboardCacheTTL time.Duration

	OtelEnabled     bool
	OtelSampleRatio float64
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool

	CORSOrigins []string

	ShutdownTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("SERVICE_NAME", "petlabel-api"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "petlabel"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "petlabel.db"),
		},

		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		RedisPassword:      envutil.String("REDIS_PASSWORD", ""),
		RedisDB:            envutil.Int("REDIS_DB", 0),
		RedisChannelPrefix: envutil.String("REDIS_CHANNEL_PREFIX", "petlabel"),

		NotifyBreakerThreshold: envutil.Int("NOTIFY_BREAKER_THRESHOLD", 5),
		NotifyBreakerCooldown:  envutil.Seconds("NOTIFY_BREAKER_COOLDOWN_SECONDS", 30*time.Second),

		ObjectStorageMode:    envutil.String("OBJECT_STORAGE_MODE", ""),
		RawBucket:            envutil.String("RAW_GCS_BUCKET_NAME", ""),
		ProcessedBucket:      envutil.String("PROCESSED_GCS_BUCKET_NAME", ""),
		GCSCredentialsFile:   envutil.String("GCS_CREDENTIALS_FILE", ""),
		StoragePublicBaseURL: envutil.String("STORAGE_PUBLIC_BASE_URL", ""),
		SignedURLTTL:         envutil.Seconds("SIGNED_URL_TTL_SECONDS", time.Hour),
		UploadURLTTL:         envutil.Seconds("UPLOAD_URL_TTL_SECONDS", 5*time.Minute),
		StorageEventsToken:   envutil.String("STORAGE_EVENTS_TOKEN", ""),

		ActivityUploadLimit: envutil.Int("ACTIVITY_UPLOAD_LIMIT", 10),
		ActivityLabelLimit:  envutil.Int("ACTIVITY_LABEL_LIMIT", 50),
		ActivityFeedLimit:   envutil.Int("ACTIVITY_FEED_LIMIT", 10),

		LabelSubmissionAtomic: envutil.Bool("LABEL_SUBMISSION_ATOMIC", false),
		WriteTimeout:          envutil.Seconds("WRITE_TIMEOUT_SECONDS", 0),
		WriteFanout:           envutil.Int("LABEL_WRITE_FANOUT", 8),

		MetricsEnabled:    envutil.Bool("METRICS_ENABLED", true),
		DashboardCacheTTL: envutil.Seconds("DASHBOARD_CACHE_SECONDS", 5*time.Second),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelHeaders:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),

		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
	if cfg.ObjectStorageMode == "" {
		cfg.ObjectStorageMode = defaultStorageMode(cfg)
	}

	if log != nil {
		log.Info(
			"Config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"redis_enabled", cfg.RedisAddr != "",
			"object_storage_mode", cfg.ObjectStorageMode,
			"label_submission_atomic", cfg.LabelSubmissionAtomic,
			"metrics_enabled", cfg.MetricsEnabled,
			"otel_enabled", cfg.OtelEnabled,
		)
		if cfg.StorageEventsToken == "" {
			log.Warn("STORAGE_EVENTS_TOKEN not set; storage events endpoint is unauthenticated")
		}
	}
	return cfg
}

// defaultStorageMode picks a mode from which bucket settings are present.
func defaultStorageMode(cfg Config) string {
	switch {
	case strings.TrimSpace(cfg.RawBucket) == "" && strings.TrimSpace(cfg.ProcessedBucket) == "":
		return string(StorageModeDisabled)
	case strings.TrimSpace(cfg.StoragePublicBaseURL) != "":
		return string(StorageModePublic)
	default:
		return string(StorageModeGCS)
	}
}

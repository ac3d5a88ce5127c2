package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Media     MediaConfig
	Detection DetectionConfig
	RabbitMQ  RabbitMQConfig
	Sentry    SentryConfig
	HTTP      HTTPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	MinPasswordLength     int
}

// AdminConfig describes the administrator account created at startup.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// Enabled reports whether a bootstrap admin is configured.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// MediaConfig selects and configures the media store.
type MediaConfig struct {
	LocalDir            string
	PublicPath          string
	MaxUploadBytes      int64
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// CloudinaryEnabled reports whether all Cloudinary credentials are present.
func (m MediaConfig) CloudinaryEnabled() bool {
	return m.CloudinaryCloudName != "" && m.CloudinaryAPIKey != "" && m.CloudinaryAPISecret != ""
}

// DetectionConfig tunes the detection step.
type DetectionConfig struct {
	CacheTTLMinutes int
}

// CacheTTL returns the detection cache lifetime.
func (d DetectionConfig) CacheTTL() time.Duration {
	if d.CacheTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(d.CacheTTLMinutes) * time.Minute
}

// RabbitMQConfig holds broker settings. An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// SentryConfig holds error reporting settings. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN              string
	TracesSampleRate float64
}

// HTTPConfig holds transport hardening values.
type HTTPConfig struct {
	CORSOrigins       string
	AuthRateLimit     int
	BodyLimitBytes    int
	AuthRateWindowSec int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	sampleRate, err := strconv.ParseFloat(getEnv("SENTRY_TRACES_SAMPLE_RATE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SENTRY_TRACES_SAMPLE_RATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "road-eye-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			MinPasswordLength:     getEnvAsInt("AUTH_MIN_PASSWORD_LENGTH", 8),
		},
		Admin: AdminConfig{
			Email:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
			Password: os.Getenv("ADMIN_PASSWORD"),
			FullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
		},
		Media: MediaConfig{
			LocalDir:            getEnv("MEDIA_LOCAL_DIR", "uploads"),
			PublicPath:          getEnv("MEDIA_PUBLIC_PATH", "/media"),
			MaxUploadBytes:      int64(getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 50*1024*1024)),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "road_reports"),
		},
		Detection: DetectionConfig{
			CacheTTLMinutes: getEnvAsInt("DETECTION_CACHE_TTL_MINUTES", 30),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "road_reports"),
		},
		Sentry: SentryConfig{
			DSN:              os.Getenv("SENTRY_DSN"),
			TracesSampleRate: sampleRate,
		},
		HTTP: HTTPConfig{
			CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
			AuthRateLimit:     getEnvAsInt("HTTP_AUTH_RATE_LIMIT", 10),
			AuthRateWindowSec: getEnvAsInt("HTTP_AUTH_RATE_WINDOW_SECONDS", 60),
			BodyLimitBytes:    getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 64*1024*1024),
		},
	}

	if cfg.Admin.Enabled() && len(cfg.Admin.Password) < cfg.Auth.MinPasswordLength {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", cfg.Auth.MinPasswordLength)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AuthRateWindow returns the limiter window for auth endpoints.
func (h HTTPConfig) AuthRateWindow() time.Duration {
	if h.AuthRateWindowSec <= 0 {
		return time.Minute
	}
	return time.Duration(h.AuthRateWindowSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

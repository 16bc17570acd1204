package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrNoDatabaseURL is returned alongside an otherwise usable config. The
// caller decides whether it can run without storage.
var ErrNoDatabaseURL = errors.New("DATABASE_URL not set")

const devJWTSecret = "lawbix-dev-secret"

type Config struct {
	Env         string
	ListenAddr  string
	ServiceName string
	LogLevel    slog.Level

	DatabaseURL string
	DBMaxConns  int
	AutoMigrate bool

	JWTSecret string
	JWTExpire time.Duration

	DocumentWorkers      int
	DocumentPollInterval time.Duration

	StorageProvider string // fs or s3
	StoragePath     string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string

	RedisURL string
	CacheTTL time.Duration
}

func (c Config) Production() bool { return c.Env == "production" }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env files from the working directory, then the environment.
// A missing DATABASE_URL is returned as ErrNoDatabaseURL alongside a usable
// config; any other error means the config is unusable.
func Load() (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Env:                  getenv("APP_ENV", "development"),
		ListenAddr:           getenv("LISTEN_ADDR", ":8080"),
		ServiceName:          getenv("SERVICE_NAME", "lawbix-api"),
		LogLevel:             getenvLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DBMaxConns:           getenvInt("DB_MAX_CONNS", 10),
		AutoMigrate:          getenvBool("AUTO_MIGRATE", false),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTExpire:            getenvDuration("JWT_EXPIRE", 7*24*time.Hour),
		DocumentWorkers:      getenvInt("DOCUMENT_WORKERS", 2),
		DocumentPollInterval: getenvDuration("DOCUMENT_POLL_INTERVAL", time.Second),
		StorageProvider:      strings.ToLower(getenv("STORAGE_PROVIDER", "fs")),
		StoragePath:          getenv("STORAGE_PATH", "./data/documents"),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3Region:             getenv("S3_REGION", "us-east-1"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3AccessKey:          os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:          os.Getenv("S3_SECRET_ACCESS_KEY"),
		RedisURL:             os.Getenv("REDIS_URL"),
		CacheTTL:             getenvDuration("CACHE_TTL", 10*time.Minute),
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	if cfg.DatabaseURL == "" {
		return cfg, ErrNoDatabaseURL
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageProvider {
	case "fs":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("STORAGE_PROVIDER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	if c.JWTSecret == "" {
		if c.Production() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.DocumentWorkers < 0 {
		c.DocumentWorkers = 0
	}
	return nil
}

// loadEnvFiles loads .env, then .env.<APP_ENV>, then .env.local. Each is
// optional and later files override earlier ones. Real environment
// variables win over .env but not over the override files.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	for _, f := range []string{".env." + os.Getenv("APP_ENV"), ".env.local"} {
		if f == ".env." {
			continue
		}
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Overload(f); err != nil {
				return fmt.Errorf("load %s: %w", f, err)
			}
		}
	}
	return nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

// getenvDuration accepts Go durations plus a whole-day form such as "7d".
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

func getenvLevel(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return def
	}
	return lvl
}

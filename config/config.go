package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the booth server reads from the environment.
// A .env file is loaded when present; real environment variables win.
type Config struct {
	Port         string
	DatabaseURL  string
	StoreBackend string // "postgres" or "memory"

	UploadDir      string
	MaxUploadMB    int64
	StorageBackend string // "local" or "gcs"
	GCSProjectID   string
	GCSBucket      string

	AIBackend string // "remote", "gemini" or "off"
	AIBaseURL string
	AIModel   string
	AISync    bool

	// PublicBaseURL is how the AI service reaches back for the original
	// image when the media store hands out relative URLs.
	PublicBaseURL string

	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string

	FeedInterval time.Duration
	FeedLimit    int
}

// Load reads the environment into a Config, applying defaults where a
// sensible one exists. DATABASE_URL is only required when the postgres
// store is selected.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StoreBackend:      getEnv("STORE_BACKEND", "postgres"),
		UploadDir:         getEnv("UPLOAD_DIR", "./data/uploads"),
		MaxUploadMB:       getEnvInt64("MAX_UPLOAD_MB", 10),
		StorageBackend:    getEnv("STORAGE_BACKEND", "local"),
		GCSProjectID:      os.Getenv("GCS_PROJECT_ID"),
		GCSBucket:         os.Getenv("GCS_BUCKET_NAME"),
		AIBackend:         getEnv("AI_BACKEND", "remote"),
		AIBaseURL:         getEnv("AI_BASE_URL", "http://127.0.0.1:8000"),
		AIModel:           getEnv("AI_MODEL", "qwen-image-edit"),
		AISync:            getEnvBool("AI_SYNC", false),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		FeedInterval:      time.Duration(getEnvInt64("FEED_INTERVAL_SECONDS", 3)) * time.Second,
		FeedLimit:         int(getEnvInt64("FEED_LIMIT", 10)),
	}

	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH not set")
	}
	if cfg.StorageBackend == "gcs" && cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME not set")
	}

	return cfg, nil
}

// MaxUploadBytes is the submission size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid integer %q, using %d\n", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

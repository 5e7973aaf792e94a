// Package config loads service settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Storage backend names accepted in RD_STORAGE.
const (
	StorageDisk   = "disk"
	StorageInline = "inline"
	StorageMinio  = "minio"
)

type Config struct {
	Addr     string
	Env      string
	LogLevel string

	// Empty means the in-memory store; set it to run against Postgres.
	DatabaseURL string

	Storage        string
	UploadDir      string
	MaxUploadBytes int64

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		Addr:           getEnv("RD_ADDR", ":8080"),
		Env:            getEnv("RD_ENV", "dev"),
		LogLevel:       getEnv("RD_LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Storage:        getEnv("RD_STORAGE", StorageDisk),
		UploadDir:      getEnv("RD_UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvInt64("RD_MAX_UPLOAD_BYTES", 10<<20),
		S3Endpoint:     getEnv("RD_S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("RD_S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("RD_S3_SECRET_KEY", ""),
		S3Bucket:       getEnv("RD_S3_BUCKET", ""),
	}

	switch c.Storage {
	case StorageDisk, StorageInline, StorageMinio:
	default:
		log.Fatalf("unknown RD_STORAGE value: %s", c.Storage)
	}

	log.Printf("config loaded: env=%s addr=%s storage=%s", c.Env, c.Addr, c.Storage)
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", k, err)
	}
	return n
}

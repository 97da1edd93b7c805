package main

import (
	"fmt"
	"os"
	"strings"
)

// Config collects all environment-driven settings. Construct it once in main
// and pass it down; nothing reads the environment after startup.
type Config struct {
	Port           string
	DSN            string
	AutoMigrate    bool
	UploadBase     string
	StorageBackend string // "local" or "s3"
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3PublicURL    string
	CORSOrigins    []string
}

func loadConfig() Config {
	cfg := Config{
		Port:           envOr("PORT", "8000"),
		DSN:            os.Getenv("DB_DSN"),
		AutoMigrate:    true,
		UploadBase:     envOr("UPLOAD_BASE", "uploads"),
		StorageBackend: envOr("STORAGE_BACKEND", "local"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),
	}
	if cfg.DSN == "" {
		cfg.DSN = dsnFromPGEnv()
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			cfg.AutoMigrate = false
		}
	}
	origins := envOr("CORS_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

// dsnFromPGEnv builds a Postgres DSN from the PG* variables the original
// deployment used. The port is fixed at 5432.
func dsnFromPGEnv() string {
	host := os.Getenv("PGHOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=require",
		host, os.Getenv("PGUSER"), os.Getenv("PGPASSWORD"), os.Getenv("PGDATABASE"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

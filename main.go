package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Auto-load ./.env if present before reading vars
	loadDotEnv()
	cfg := loadConfig()

	// Lightweight migrate command: `./filenode migrate` runs AutoMigrate and
	// exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if _, err := openDB(cfg); err != nil {
			log.Fatal(err)
		}
		fmt.Println("migration completed")
		return
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	store, err := newBlobStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg)))

	srv := NewServer(db, store)
	srv.setupRoutes(r)

	// Disk-backed deployments also serve the upload root statically, so the
	// recorded /uploads/<name> locations resolve directly in a browser.
	if cfg.StorageBackend == "" || cfg.StorageBackend == "local" {
		r.Static("/uploads", cfg.UploadBase)
	}

	r.Run(":" + cfg.Port)
}

func corsConfig(cfg Config) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cc.AllowHeaders = []string{"Content-Type", "Authorization"}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSOrigins
	}
	return cc
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}

package main

import (
	"fmt"
	"log"

	"filenode/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openDB(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("no database configured: set DB_DSN or the PGHOST/PGUSER/PGPASSWORD/PGDATABASE variables")
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.AutoMigrate {
		migrateDB(db)
	}
	return db, nil
}

// migrateDB runs AutoMigrate for the files table. Permission errors are
// logged and ignored so the service can still run against a pre-created
// schema (control with DB_AUTO_MIGRATE).
func migrateDB(db *gorm.DB) {
	if err := db.AutoMigrate(&models.File{}); err != nil {
		log.Printf("migration warning (files): %v", err)
	}
}

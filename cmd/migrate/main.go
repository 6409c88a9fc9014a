package main

import (
	"log"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/database"
	"github.com/pageza/pantry/backend/internal/logger"
)

// migrate creates or updates the users table without starting the API
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migrations applied to %s database", cfg.DBDriver)
}

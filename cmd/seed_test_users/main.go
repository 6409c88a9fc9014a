package main

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/database"
	"github.com/pageza/pantry/backend/internal/logger"
	"github.com/pageza/pantry/backend/internal/service"
)

const testPassword = "testpassword123"

var testEmails = []string{
	"john.doe@example.com",
	"jane.smith@example.com",
	"test.user@example.com",
}

// seed_test_users creates development accounts. Existing accounts are left
// untouched.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.CurrentEnvironment().IsProduction() {
		log.Fatal("Refusing to seed test users in production")
	}
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(db.DB, cfg.BcryptCost)
	ctx := context.Background()
	for _, email := range testEmails {
		user, err := authService.Signup(ctx, email, testPassword)
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			log.Printf("Skipping %s (already exists)", email)
		case err != nil:
			log.Fatalf("Failed to create %s: %v", email, err)
		default:
			log.Printf("Created test user %s (id %d)", user.Email, user.ID)
		}
	}
	log.Printf("Test users use the password %q", testPassword)
}

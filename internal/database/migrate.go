package database

import (
	"fmt"

	"github.com/pageza/pantry/backend/internal/models"
)

// RunMigrations creates or updates the users table
func (db *DB) RunMigrations() error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

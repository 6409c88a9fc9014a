package models

import (
	"time"
)

// User is an email/password account
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// TableName pins the table name so it matches databases created by earlier
// deployments
func (User) TableName() string {
	return "users"
}

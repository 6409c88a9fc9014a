package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("an account with that email already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db      *gorm.DB
	cost    int
	now     func() time.Time
	compare func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(db *gorm.DB, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:      db,
		cost:    bcryptCost,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account. The duplicate check and the insert run in one
// transaction.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords return the
// same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same bcrypt work as a wrong password
			_ = s.compare(s.dummy(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// dummy returns a hash at the service cost that no password matches
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("pantry:no-such-account"), s.cost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

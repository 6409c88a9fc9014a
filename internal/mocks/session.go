package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantry/backend/internal/types"
)

// MockSessionValidator is a mock implementation of middleware.SessionValidator
type MockSessionValidator struct {
	mock.Mock
}

func (m *MockSessionValidator) Validate(ctx context.Context, token string) (*types.SessionClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SessionClaims), args.Error(1)
}

// MockRevocationStore is a mock implementation of service.RevocationStore
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(sessionID, ttl)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(sessionID)
	return args.Bool(0), args.Error(1)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/types"
)

const sessionIssuer = "pantry"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionRevoked = errors.New("session has been revoked")
)

// RevocationStore remembers logged-out session IDs until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionService issues and validates signed session tokens
type SessionService struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

// NewSessionService creates a session service. revoked may be nil, in which
// case logout only clears the client cookie.
func NewSessionService(secret string, ttl time.Duration, revoked RevocationStore) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// TTL is how long an issued session stays valid
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new session for user
func (s *SessionService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    sessionIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a session token and checks it has not been revoked
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Email == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}
	return claims, nil
}

// Revoke invalidates a session for the rest of its lifetime
func (s *SessionService) Revoke(ctx context.Context, claims *types.SessionClaims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}

// RedisRevocationStore keeps revoked session IDs in Redis with an expiry
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: "session:revoked",
	}
}

func (r *RedisRevocationStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, sessionID)
}

func (r *RedisRevocationStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(sessionID), 1, ttl).Err()
}

func (r *RedisRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

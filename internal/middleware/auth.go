package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/types"
)

// SessionCookie is the name of the cookie holding the signed session
const SessionCookie = "pantry_session"

// Context keys set by RequireSession
const (
	ContextUserID   = "user_id"
	ContextEmail    = "user_email"
	ContextSession  = "session_claims"
	unauthenticated = "Please log in to continue."
)

// SessionValidator is an interface for validating session tokens
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*types.SessionClaims, error)
}

// RequireSession rejects requests without a valid session cookie
func RequireSession(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionFromCookie(c, validator)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthenticated})
			return
		}

		// Store user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextSession, claims)
		c.Next()
	}
}

// OptionalSession attaches the session when present and valid, and lets the
// request through either way
func OptionalSession(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionFromCookie(c, validator); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextSession, claims)
		}
		c.Next()
	}
}

// SessionClaims returns the session attached by RequireSession or OptionalSession
func SessionClaims(c *gin.Context) (*types.SessionClaims, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.SessionClaims)
	return claims, ok
}

func sessionFromCookie(c *gin.Context, validator SessionValidator) (*types.SessionClaims, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := validator.Validate(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by the signed session cookie. The
// token ID (jti) is used to revoke a session on logout.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

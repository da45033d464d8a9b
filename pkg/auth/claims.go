package auth

import (
	"github.com/digifund/digifund-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PublicID string
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. PublicID is
// the caller identity every mutation is scoped by.
type AccessTokenClaims struct {
	PublicID string         `json:"public_id"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

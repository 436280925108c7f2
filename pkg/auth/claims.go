package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	ShopID *uuid.UUID
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. ShopID is set
// only for partner accounts that own a shop.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	ShopID *uuid.UUID     `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}

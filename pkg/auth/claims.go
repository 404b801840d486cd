package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role names the acting party a token was issued for.
type Role string

const (
	RoleShopper      Role = "shopper"
	RoleManufacturer Role = "manufacturer"
	RoleAdmin        Role = "admin"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	Email          string
	Role           Role
	ManufacturerID *uuid.UUID
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to shoppers, manufacturer
// staff and admins.
type AccessTokenClaims struct {
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email,omitempty"`
	Role           Role       `json:"role"`
	ManufacturerID *uuid.UUID `json:"manufacturer_id,omitempty"`
	jwt.RegisteredClaims
}

package entities

import "github.com/golang-jwt/jwt/v4"

// AuthClaims are carried by staff authentication tokens.
type AuthClaims struct {
	jwt.RegisteredClaims
	StaffID    int        `json:"staff_id"`
	Department Department `json:"department"`
}

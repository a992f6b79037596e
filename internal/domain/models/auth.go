package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT claims structure issued by the identity
// provider. Only the fields this backend reads are modeled.
type UserClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"client_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}

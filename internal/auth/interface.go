package auth

import "curator/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// Credentials are consumed as a black box: a token goes in, an
// identity comes out.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

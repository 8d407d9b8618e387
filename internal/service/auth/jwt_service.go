// Package auth provides credential issuance and resolution: JWT access
// tokens and bcrypt password hashing.
package auth

import "context"

// JWTService issues and resolves opaque credentials. The rest of the system
// treats it as a "resolve token to user id" capability.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken checks the token and returns the user ID it carries.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (int64, error)
}

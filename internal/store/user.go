package store

import (
	"context"

	"github.com/visitly/visitly/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and assigns its ID.
	// Returns ErrUsernameExists if the username is already taken
	// (case-insensitive) and ErrSignupOriginExists if an account already
	// exists for the same signup origin.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Adjust applies fn to the stored user under the collection lock, so
	// the read-modify-write cycle cannot interleave with another Adjust of
	// the same collection. If fn returns an error nothing is written.
	// Returns the updated user, or ErrUserNotFound.
	Adjust(ctx context.Context, id int64, fn func(*domain.User) error) (*domain.User, error)
}

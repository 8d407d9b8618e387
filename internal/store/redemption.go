package store

import (
	"context"

	"github.com/visitly/visitly/internal/domain"
)

// RedemptionStore defines the interface for redemption request persistence.
type RedemptionStore interface {
	// Create saves a new redemption request and assigns its ID.
	Create(ctx context.Context, redemption *domain.Redemption) error

	// GetByID retrieves a redemption by its unique ID.
	// Returns ErrRedemptionNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Redemption, error)

	// ListByUser returns all redemption requests filed by the given user.
	ListByUser(ctx context.Context, userID int64) ([]domain.Redemption, error)

	// List returns all redemption requests.
	List(ctx context.Context) ([]domain.Redemption, error)

	// Mutate applies fn to the stored redemption under the collection lock
	// and writes the collection back. If fn returns an error nothing is
	// written. Returns the updated redemption, or ErrRedemptionNotFound.
	Mutate(ctx context.Context, id int64, fn func(*domain.Redemption) error) (*domain.Redemption, error)
}

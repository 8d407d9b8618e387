package jsonfile

import (
	"context"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// RedemptionStore implements store.RedemptionStore over the redemptions
// collection.
type RedemptionStore struct {
	c      *collection[domain.Redemption]
	logger *slog.Logger
}

var _ store.RedemptionStore = (*RedemptionStore)(nil)

// NewRedemptionStore creates a RedemptionStore rooted at dataDir.
func NewRedemptionStore(dataDir string, logger *slog.Logger) *RedemptionStore {
	return &RedemptionStore{
		c:      newCollection[domain.Redemption](dataDir, "redemptions"),
		logger: logger.With("component", "redemption_store"),
	}
}

// Create saves a new redemption request and assigns its ID.
func (s *RedemptionStore) Create(ctx context.Context, redemption *domain.Redemption) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	redemptions, err := s.c.load()
	if err != nil {
		return err
	}

	redemption.ID = nextID(redemptions, func(r domain.Redemption) int64 { return r.ID })
	redemptions = append(redemptions, *redemption)

	if err := s.c.save(redemptions); err != nil {
		return err
	}

	s.logger.Debug("redemption created",
		"redemption_id", redemption.ID,
		"user_id", redemption.UserID,
		"amount", redemption.Amount)
	return nil
}

// GetByID retrieves a redemption by ID.
func (s *RedemptionStore) GetByID(ctx context.Context, id int64) (*domain.Redemption, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	redemptions, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range redemptions {
		if redemptions[i].ID == id {
			r := redemptions[i]
			return &r, nil
		}
	}
	return nil, store.ErrRedemptionNotFound
}

// ListByUser returns all redemption requests filed by the given user.
func (s *RedemptionStore) ListByUser(ctx context.Context, userID int64) ([]domain.Redemption, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	redemptions, err := s.c.load()
	if err != nil {
		return nil, err
	}
	filed := make([]domain.Redemption, 0)
	for i := range redemptions {
		if redemptions[i].UserID == userID {
			filed = append(filed, redemptions[i])
		}
	}
	return filed, nil
}

// List returns all redemption requests.
func (s *RedemptionStore) List(ctx context.Context) ([]domain.Redemption, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.load()
}

// Mutate applies fn to the stored redemption with the collection lock held
// across the whole read-modify-write cycle.
func (s *RedemptionStore) Mutate(ctx context.Context, id int64, fn func(*domain.Redemption) error) (*domain.Redemption, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	redemptions, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range redemptions {
		if redemptions[i].ID == id {
			if err := fn(&redemptions[i]); err != nil {
				return nil, err
			}
			if err := s.c.save(redemptions); err != nil {
				return nil, err
			}
			r := redemptions[i]
			return &r, nil
		}
	}
	return nil, store.ErrRedemptionNotFound
}

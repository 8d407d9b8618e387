package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// UserStore implements store.UserStore over the users collection.
type UserStore struct {
	c      *collection[domain.User]
	logger *slog.Logger
}

// Ensure UserStore implements the store interface.
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore rooted at dataDir.
func NewUserStore(dataDir string, logger *slog.Logger) *UserStore {
	return &UserStore{
		c:      newCollection[domain.User](dataDir, "users"),
		logger: logger.With("component", "user_store"),
	}
}

// Create saves a new user and assigns its ID.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	users, err := s.c.load()
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].SameUsername(user.Username) {
			return store.ErrUsernameExists
		}
	}
	if user.SignupOrigin != "" {
		for i := range users {
			if users[i].SignupOrigin == user.SignupOrigin {
				return store.ErrSignupOriginExists
			}
		}
	}

	user.ID = nextID(users, func(u domain.User) int64 { return u.ID })
	users = append(users, *user)

	if err := s.c.save(users); err != nil {
		return err
	}

	s.logger.Debug("user created", "user_id", user.ID, "username", user.Username)
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	users, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByUsername retrieves a user by username, case-insensitively.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	users, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List returns all users.
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.load()
}

// Adjust applies fn to the stored user with the collection lock held across
// the whole read-modify-write cycle.
func (s *UserStore) Adjust(ctx context.Context, id int64, fn func(*domain.User) error) (*domain.User, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	users, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			if err := fn(&users[i]); err != nil {
				return nil, err
			}
			if err := users[i].Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
			}
			if err := s.c.save(users); err != nil {
				return nil, err
			}
			u := users[i]
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

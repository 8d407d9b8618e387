package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/service/auth"
	"github.com/visitly/visitly/internal/store"
)

// UserService provides registration, login and account operations.
type UserService interface {
	// Register creates an account, credits the signup bonus and records
	// the paired audit entry. Returns store.ErrUsernameExists or
	// store.ErrSignupOriginExists on uniqueness violations.
	Register(ctx context.Context, username, password, signupOrigin string) (*domain.User, error)

	// Login verifies the credentials and returns the user with a fresh
	// access token. Returns ErrInvalidCredentials or ErrBanned.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// ListUsers returns all users. Password hashes are stripped at the
	// API layer, not here.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreditCoins adds coins to a user's balance on behalf of an admin,
	// with the paired audit entry.
	CreditCoins(ctx context.Context, userID int64, coins int) (*domain.User, error)

	// EnsureAdmin seeds the bootstrap admin account if it does not exist.
	EnsureAdmin(ctx context.Context, username, password string) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	users       store.UserStore
	coinLedger  *ledger.Ledger
	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
	verifier    auth.PasswordVerifier
	signupBonus int
	logger      *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a UserService.
func NewUserService(
	users store.UserStore,
	coinLedger *ledger.Ledger,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	signupBonus int,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		users:       users,
		coinLedger:  coinLedger,
		jwtService:  jwtService,
		hasher:      hasher,
		verifier:    verifier,
		signupBonus: signupBonus,
		logger:      logger.With("component", "user_service"),
	}
}

// Register creates an account with the signup bonus already on the balance;
// the bonus audit entry is appended in the same logical operation.
func (s *UserServiceImpl) Register(ctx context.Context, username, password, signupOrigin string) (*domain.User, error) {
	if password == "" {
		return nil, domain.ErrEmptyPassword
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(username, hashed, signupOrigin)
	if err != nil {
		return nil, err
	}
	user.Coins = s.signupBonus

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.coinLedger.RecordGrant(ctx, domain.ActorSystem, user.ID, s.signupBonus, domain.AuditActionSignup, "signup bonus"); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
		"signup_bonus", s.signupBonus)
	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserServiceImpl) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if user.Banned {
		return nil, "", ErrBanned
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Debug("user logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser retrieves a user by their ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns all users.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// CreditCoins adds coins to a user's balance on behalf of an admin.
func (s *UserServiceImpl) CreditCoins(ctx context.Context, userID int64, coins int) (*domain.User, error) {
	user, err := s.coinLedger.Credit(ctx, domain.ActorAdmin, userID, coins, domain.AuditActionAddCoins, "manual add")
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin seeds the bootstrap admin account when absent. The account
// starts with no coins and no signup origin.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := domain.NewUser(username, hashed, "")
	if err != nil {
		return err
	}
	admin.IsAdmin = true

	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("bootstrap admin seeded", "user_id", admin.ID, "username", username)
	return nil
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// Common user validation errors
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrNegativeCoins       = errors.New("coin balance cannot be negative")
)

// User represents a registered account. Coin balances are whole coins and
// must never go negative; every balance change is paired with an AuditEntry
// appended by the ledger.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"password_hash"`
	Coins          int       `json:"coins"`
	TotalVisits    int       `json:"total_visits"`
	IsAdmin        bool      `json:"is_admin"`
	Banned         bool      `json:"banned"`
	SignupOrigin   string    `json:"signup_origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username, hashed password and
// signup origin. The ID is assigned by the store on first save.
func NewUser(username, hashedPassword, signupOrigin string) (*User, error) {
	user := &User{
		Username:       strings.TrimSpace(username),
		HashedPassword: hashedPassword,
		SignupOrigin:   signupOrigin,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	if u.Coins < 0 {
		return ErrNegativeCoins
	}
	return nil
}

// SameUsername reports whether the user's username matches name,
// case-insensitively. Usernames are unique under this comparison.
func (u *User) SameUsername(name string) bool {
	return strings.EqualFold(u.Username, name)
}

package api

import (
	"time"

	"github.com/visitly/visitly/internal/domain"
)

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	OK     bool  `json:"ok"`
	UserID int64 `json:"user_id"`
	Coins  int   `json:"coins"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserView `json:"user"`
}

// StartTaskRequest defines the payload for starting a visit task.
type StartTaskRequest struct {
	UID    string `json:"uid"    validate:"required"`
	Visits int    `json:"visits" validate:"required,gt=0"`
}

// StartTaskResponse is returned on successful task start.
type StartTaskResponse struct {
	OK        bool  `json:"ok"`
	TaskID    int64 `json:"task_id"`
	CoinsUsed int   `json:"coins_used"`
}

// RedemptionRequest defines the payload for filing a cash-out request.
type RedemptionRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// AddCoinsRequest defines the payload for an admin coin credit.
type AddCoinsRequest struct {
	Coins int `json:"coins" validate:"required,gt=0"`
}

// ApproveResponse is returned on redemption approval.
type ApproveResponse struct {
	OK       bool `json:"ok"`
	Credited int  `json:"credited"`
}

// SettingsResponse exposes the public economy constants.
type SettingsResponse struct {
	VisitsPerCoin int     `json:"visits_per_coin"`
	RupeePerCoin  float64 `json:"rupee_per_coin"`
	SignupBonus   int     `json:"signup_bonus"`
	HitInterval   int     `json:"hit_interval"`
}

// UserView is a user record with the credential hash stripped.
type UserView struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Coins        int       `json:"coins"`
	TotalVisits  int       `json:"total_visits"`
	IsAdmin      bool      `json:"is_admin"`
	Banned       bool      `json:"banned"`
	SignupOrigin string    `json:"signup_origin"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserView sanitizes a domain user for responses.
func NewUserView(u *domain.User) UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		Coins:        u.Coins,
		TotalVisits:  u.TotalVisits,
		IsAdmin:      u.IsAdmin,
		Banned:       u.Banned,
		SignupOrigin: u.SignupOrigin,
		CreatedAt:    u.CreatedAt,
	}
}

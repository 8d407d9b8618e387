package domain

import (
	"errors"
	"time"
)

// RedemptionStatus represents the state of a cash-out request.
type RedemptionStatus string

// Possible redemption status values.
const (
	RedemptionStatusPending  RedemptionStatus = "pending"
	RedemptionStatusApproved RedemptionStatus = "approved"
)

var ErrNonPositiveAmount = errors.New("redemption amount must be positive")

// Redemption is a request to convert a monetary amount back into coins.
// Approval is guarded so a redemption is only ever credited once.
type Redemption struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	Amount     float64          `json:"amount"`
	Status     RedemptionStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	ApprovedAt *time.Time       `json:"approved_at"`
}

// NewRedemption creates a pending redemption request for the given rupee
// amount. The ID is assigned by the store on first save.
func NewRedemption(userID int64, amount float64) (*Redemption, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	return &Redemption{
		UserID:    userID,
		Amount:    amount,
		Status:    RedemptionStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

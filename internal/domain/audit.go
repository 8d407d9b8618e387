package domain

import (
	"errors"
	"time"
)

// Actor identifies who caused a balance-affecting event.
type Actor string

// Recognized actors.
const (
	ActorSystem Actor = "system"
	ActorUser   Actor = "user"
	ActorAdmin  Actor = "admin"
)

// Audit action kinds. One per balance mutation source.
const (
	AuditActionSignup         = "signup"
	AuditActionStartTask      = "start_task"
	AuditActionAddCoins       = "add_coins"
	AuditActionRedeemApproved = "redeem_approved"
)

var (
	ErrEmptyAuditAction = errors.New("audit action cannot be empty")
	ErrInvalidActor     = errors.New("invalid audit actor")
)

// AuditEntry is an immutable record of a balance-affecting event. Entries
// are append-only: never mutated, never deleted. Amount is signed: debits
// are negative, credits positive.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Actor     Actor     `json:"actor"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Amount    int       `json:"amount"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuditEntry creates an audit entry for the given event. The ID is
// assigned by the store on append.
func NewAuditEntry(actor Actor, userID int64, action string, amount int, note string) (*AuditEntry, error) {
	switch actor {
	case ActorSystem, ActorUser, ActorAdmin:
	default:
		return nil, ErrInvalidActor
	}
	if action == "" {
		return nil, ErrEmptyAuditAction
	}

	return &AuditEntry{
		Actor:     actor,
		UserID:    userID,
		Action:    action,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

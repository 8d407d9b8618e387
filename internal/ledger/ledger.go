// Package ledger owns every coin balance mutation. Each debit or credit is
// paired with an append to the audit log in the same logical operation; no
// balance changes outside this package.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// Common ledger errors
var (
	// ErrInsufficientCoins is returned when a debit would take a balance
	// below zero. The balance is left untouched.
	ErrInsufficientCoins = errors.New("insufficient coins")

	// ErrNonPositiveCoins is returned when a debit or credit amount is
	// zero or negative.
	ErrNonPositiveCoins = errors.New("coin amount must be positive")
)

// CostForVisits returns the coin cost for the requested visit count:
// ceil(visits / visitsPerCoin). visits must be >= 0 and visitsPerCoin >= 1
// (enforced by config validation).
func CostForVisits(visits, visitsPerCoin int) int {
	return (visits + visitsPerCoin - 1) / visitsPerCoin
}

// CoinsForRupees converts a monetary amount to whole coins at the given
// rate, rounding down.
func CoinsForRupees(amount, rupeePerCoin float64) int {
	return int(amount / rupeePerCoin)
}

// Ledger applies balance changes and mirrors each one into the audit log.
type Ledger struct {
	users  store.UserStore
	audit  store.AuditStore
	logger *slog.Logger
}

// New creates a Ledger.
func New(users store.UserStore, audit store.AuditStore, logger *slog.Logger) *Ledger {
	return &Ledger{
		users:  users,
		audit:  audit,
		logger: logger.With("component", "ledger"),
	}
}

// Debit removes coins from the user's balance and appends a negative-amount
// audit entry. Returns ErrInsufficientCoins without any partial deduction
// when the balance is too low.
func (l *Ledger) Debit(ctx context.Context, actor domain.Actor, userID int64, coins int, action, note string) (*domain.User, error) {
	if coins <= 0 {
		return nil, ErrNonPositiveCoins
	}

	user, err := l.users.Adjust(ctx, userID, func(u *domain.User) error {
		if u.Coins < coins {
			return ErrInsufficientCoins
		}
		u.Coins -= coins
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := l.append(ctx, actor, userID, action, -coins, note); err != nil {
		return nil, err
	}

	l.logger.Info("coins debited",
		"user_id", userID,
		"coins", coins,
		"action", action,
		"balance", user.Coins)
	return user, nil
}

// Credit adds coins to the user's balance and appends a positive-amount
// audit entry.
func (l *Ledger) Credit(ctx context.Context, actor domain.Actor, userID int64, coins int, action, note string) (*domain.User, error) {
	if coins <= 0 {
		return nil, ErrNonPositiveCoins
	}

	user, err := l.users.Adjust(ctx, userID, func(u *domain.User) error {
		u.Coins += coins
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := l.append(ctx, actor, userID, action, coins, note); err != nil {
		return nil, err
	}

	l.logger.Info("coins credited",
		"user_id", userID,
		"coins", coins,
		"action", action,
		"balance", user.Coins)
	return user, nil
}

// RecordGrant appends an audit entry for coins granted outside Adjust, such
// as the signup bonus written with the fresh user record itself.
func (l *Ledger) RecordGrant(ctx context.Context, actor domain.Actor, userID int64, coins int, action, note string) error {
	return l.append(ctx, actor, userID, action, coins, note)
}

func (l *Ledger) append(ctx context.Context, actor domain.Actor, userID int64, action string, amount int, note string) error {
	entry, err := domain.NewAuditEntry(actor, userID, action, amount, note)
	if err != nil {
		return fmt.Errorf("build audit entry: %w", err)
	}
	if err := l.audit.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

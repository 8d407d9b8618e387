package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/store"
)

// RedemptionService handles cash-out requests and their approval.
type RedemptionService interface {
	// Request files a pending redemption for the given rupee amount.
	Request(ctx context.Context, userID int64, amount float64) (*domain.Redemption, error)

	// Approve converts a pending redemption into a coin credit, exactly
	// once. Returns the coins credited, or ErrAlreadyProcessed if the
	// redemption already left the pending state (no balance or audit
	// change on the second call).
	Approve(ctx context.Context, redemptionID int64) (int, error)

	// ListByUser returns the user's redemption requests.
	ListByUser(ctx context.Context, userID int64) ([]domain.Redemption, error)

	// List returns all redemption requests.
	List(ctx context.Context) ([]domain.Redemption, error)
}

// RedemptionServiceImpl implements the RedemptionService interface.
type RedemptionServiceImpl struct {
	redemptions  store.RedemptionStore
	coinLedger   *ledger.Ledger
	rupeePerCoin float64
	logger       *slog.Logger
}

var _ RedemptionService = (*RedemptionServiceImpl)(nil)

// NewRedemptionService creates a RedemptionService converting at the given
// rupee-per-coin rate.
func NewRedemptionService(
	redemptions store.RedemptionStore,
	coinLedger *ledger.Ledger,
	rupeePerCoin float64,
	logger *slog.Logger,
) *RedemptionServiceImpl {
	return &RedemptionServiceImpl{
		redemptions:  redemptions,
		coinLedger:   coinLedger,
		rupeePerCoin: rupeePerCoin,
		logger:       logger.With("component", "redemption_service"),
	}
}

// Request files a pending redemption.
func (s *RedemptionServiceImpl) Request(ctx context.Context, userID int64, amount float64) (*domain.Redemption, error) {
	redemption, err := domain.NewRedemption(userID, amount)
	if err != nil {
		return nil, err
	}
	if err := s.redemptions.Create(ctx, redemption); err != nil {
		return nil, err
	}

	s.logger.Info("redemption requested",
		"redemption_id", redemption.ID,
		"user_id", userID,
		"amount", amount)
	return redemption, nil
}

// Approve moves the redemption to approved and credits the converted coins.
// The pending guard inside the store mutation makes double approval a
// no-op: the second call fails before any balance or audit write.
func (s *RedemptionServiceImpl) Approve(ctx context.Context, redemptionID int64) (int, error) {
	redemption, err := s.redemptions.Mutate(ctx, redemptionID, func(r *domain.Redemption) error {
		if r.Status != domain.RedemptionStatusPending {
			return ErrAlreadyProcessed
		}
		r.Status = domain.RedemptionStatusApproved
		now := time.Now().UTC()
		r.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return 0, err
	}

	coins := ledger.CoinsForRupees(redemption.Amount, s.rupeePerCoin)
	note := fmt.Sprintf("redeem %d", redemptionID)
	if coins > 0 {
		if _, err := s.coinLedger.Credit(ctx, domain.ActorAdmin, redemption.UserID, coins, domain.AuditActionRedeemApproved, note); err != nil {
			return 0, err
		}
	} else {
		// Amounts below one coin's worth still leave an audit trail.
		if err := s.coinLedger.RecordGrant(ctx, domain.ActorAdmin, redemption.UserID, coins, domain.AuditActionRedeemApproved, note); err != nil {
			return 0, err
		}
	}

	s.logger.Info("redemption approved",
		"redemption_id", redemptionID,
		"user_id", redemption.UserID,
		"credited", coins)
	return coins, nil
}

// ListByUser returns the user's redemption requests.
func (s *RedemptionServiceImpl) ListByUser(ctx context.Context, userID int64) ([]domain.Redemption, error) {
	return s.redemptions.ListByUser(ctx, userID)
}

// List returns all redemption requests.
func (s *RedemptionServiceImpl) List(ctx context.Context) ([]domain.Redemption, error) {
	return s.redemptions.List(ctx)
}

package service

import (
	"context"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// History bundles a user's balance-affecting records. Redemptions are only
// populated for the admin view.
type History struct {
	Audit       []domain.AuditEntry `json:"audit"`
	Tasks       []domain.Task       `json:"tasks"`
	Redemptions []domain.Redemption `json:"redeems,omitempty"`
}

// HistoryService reads the audit log and task history.
type HistoryService interface {
	// ForUser returns the audit entries and tasks belonging to the user.
	ForUser(ctx context.Context, userID int64) (*History, error)

	// ForAdmin returns the full audit log, all tasks and all redemptions.
	ForAdmin(ctx context.Context) (*History, error)
}

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	audit       store.AuditStore
	tasks       store.TaskStore
	redemptions store.RedemptionStore
	logger      *slog.Logger
}

var _ HistoryService = (*HistoryServiceImpl)(nil)

// NewHistoryService creates a HistoryService.
func NewHistoryService(
	audit store.AuditStore,
	tasks store.TaskStore,
	redemptions store.RedemptionStore,
	logger *slog.Logger,
) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		audit:       audit,
		tasks:       tasks,
		redemptions: redemptions,
		logger:      logger.With("component", "history_service"),
	}
}

// ForUser returns the caller's own history.
func (s *HistoryServiceImpl) ForUser(ctx context.Context, userID int64) (*History, error) {
	audit, err := s.audit.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &History{Audit: audit, Tasks: tasks}, nil
}

// ForAdmin returns everything.
func (s *HistoryServiceImpl) ForAdmin(ctx context.Context) (*History, error) {
	audit, err := s.audit.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	redemptions, err := s.redemptions.List(ctx)
	if err != nil {
		return nil, err
	}
	return &History{Audit: audit, Tasks: tasks, Redemptions: redemptions}, nil
}

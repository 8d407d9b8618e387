package store

import (
	"context"

	"github.com/visitly/visitly/internal/domain"
)

// AuditStore defines the interface for the append-only audit log.
// Entries are never updated or deleted.
type AuditStore interface {
	// Append persists a new audit entry and assigns its ID.
	Append(ctx context.Context, entry *domain.AuditEntry) error

	// ListByUser returns all entries affecting the given user.
	ListByUser(ctx context.Context, userID int64) ([]domain.AuditEntry, error)

	// List returns the full audit log.
	List(ctx context.Context) ([]domain.AuditEntry, error)
}

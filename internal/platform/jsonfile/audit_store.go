package jsonfile

import (
	"context"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// AuditStore implements store.AuditStore over the audit collection.
// The collection is append-only; entries are never rewritten.
type AuditStore struct {
	c      *collection[domain.AuditEntry]
	logger *slog.Logger
}

var _ store.AuditStore = (*AuditStore)(nil)

// NewAuditStore creates an AuditStore rooted at dataDir.
func NewAuditStore(dataDir string, logger *slog.Logger) *AuditStore {
	return &AuditStore{
		c:      newCollection[domain.AuditEntry](dataDir, "audit"),
		logger: logger.With("component", "audit_store"),
	}
}

// Append persists a new audit entry and assigns its ID.
func (s *AuditStore) Append(ctx context.Context, entry *domain.AuditEntry) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	entries, err := s.c.load()
	if err != nil {
		return err
	}

	entry.ID = nextID(entries, func(e domain.AuditEntry) int64 { return e.ID })
	entries = append(entries, *entry)

	if err := s.c.save(entries); err != nil {
		return err
	}

	s.logger.Debug("audit entry appended",
		"entry_id", entry.ID,
		"user_id", entry.UserID,
		"action", entry.Action,
		"amount", entry.Amount)
	return nil
}

// ListByUser returns all entries affecting the given user.
func (s *AuditStore) ListByUser(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	entries, err := s.c.load()
	if err != nil {
		return nil, err
	}
	affecting := make([]domain.AuditEntry, 0)
	for i := range entries {
		if entries[i].UserID == userID {
			affecting = append(affecting, entries[i])
		}
	}
	return affecting, nil
}

// List returns the full audit log.
func (s *AuditStore) List(ctx context.Context) ([]domain.AuditEntry, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.load()
}

package store

import (
	"context"

	"github.com/visitly/visitly/internal/domain"
)

// SettingsStore persists the durable snapshot of the economy settings.
type SettingsStore interface {
	// Save writes the settings snapshot, replacing any previous one.
	Save(ctx context.Context, settings domain.EconomySettings) error

	// Get returns the stored settings snapshot.
	// Returns ErrNotFound if no snapshot has been saved yet.
	Get(ctx context.Context) (*domain.EconomySettings, error)
}

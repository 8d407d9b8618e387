package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// SettingsStore implements store.SettingsStore. The settings collection
// holds a single document rather than a slice.
type SettingsStore struct {
	path string
	mu   sync.Mutex
}

var _ store.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore creates a SettingsStore rooted at dataDir.
func NewSettingsStore(dataDir string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(dataDir, "settings.json")}
}

// Save writes the settings snapshot, replacing any previous one.
func (s *SettingsStore) Save(ctx context.Context, settings domain.EconomySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return atomicWriteJSON(s.path, settings)
}

// Get returns the stored settings snapshot.
func (s *SettingsStore) Get(ctx context.Context) (*domain.EconomySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var settings domain.EconomySettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

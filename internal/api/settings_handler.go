package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// SettingsHandler serves the public economy constants. It reads the durable
// snapshot written at startup and falls back to the live values when the
// snapshot is missing.
type SettingsHandler struct {
	settings store.SettingsStore
	fallback domain.EconomySettings
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler with the given dependencies.
func NewSettingsHandler(settings store.SettingsStore, fallback domain.EconomySettings, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		fallback: fallback,
		logger:   logger.With("component", "settings_handler"),
	}
}

// Get handles GET /api/settings. No authentication required.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Get(r.Context())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			respondMappedError(w, r, err)
			return
		}
		current = &h.fallback
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SettingsResponse{
		VisitsPerCoin: current.VisitsPerCoin,
		RupeePerCoin:  current.RupeePerCoin,
		SignupBonus:   current.SignupBonus,
		HitInterval:   current.PollIntervalSeconds,
	})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/visitly/visitly/internal/api/middleware"
	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/service"
)

// HistoryHandler serves a user's own audit and task history.
type HistoryHandler struct {
	history service.HistoryService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler with the given dependencies.
func NewHistoryHandler(history service.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger.With("component", "history_handler"),
	}
}

// ForUser handles GET /api/history.
func (h *HistoryHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	history, err := h.history.ForUser(r.Context(), userID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, history)
}

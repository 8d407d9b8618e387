package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/visitly/visitly/internal/api/middleware"
	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/service"
)

// RedemptionHandler handles cash-out API requests.
type RedemptionHandler struct {
	redemptions service.RedemptionService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewRedemptionHandler creates a new RedemptionHandler with the given dependencies.
func NewRedemptionHandler(redemptions service.RedemptionService, logger *slog.Logger) *RedemptionHandler {
	return &RedemptionHandler{
		redemptions: redemptions,
		validator:   validator.New(),
		logger:      logger.With("component", "redemption_handler"),
	}
}

// Request handles POST /api/redemptions.
func (h *RedemptionHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req RedemptionRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A positive amount is required")
		return
	}

	redemption, err := h.redemptions.Request(r.Context(), userID, req.Amount)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, redemption)
}

// List handles GET /api/redemptions: the caller's own requests.
func (h *RedemptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	redemptions, err := h.redemptions.ListByUser(r.Context(), userID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]domain.Redemption{"redeems": redemptions})
}

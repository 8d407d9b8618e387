package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/service"
)

// AdminHandler handles the admin-only API surface. Routes using it must sit
// behind AdminMiddleware.RequireAdmin.
type AdminHandler struct {
	users       service.UserService
	redemptions service.RedemptionService
	history     service.HistoryService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(
	users service.UserService,
	redemptions service.RedemptionService,
	history service.HistoryService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:       users,
		redemptions: redemptions,
		history:     history,
		validator:   validator.New(),
		logger:      logger.With("component", "admin_handler"),
	}
}

// ListUsers handles GET /api/admin/users. Password hashes are stripped.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]UserView{"users": views})
}

// AddCoins handles POST /api/admin/users/{id}/coins.
func (h *AdminHandler) AddCoins(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req AddCoinsRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A positive coin amount is required")
		return
	}

	user, err := h.users.CreditCoins(r.Context(), userID, req.Coins)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserView(user))
}

// ListRedemptions handles GET /api/admin/redemptions.
func (h *AdminHandler) ListRedemptions(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.redemptions.List(r.Context())
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]domain.Redemption{"redeems": redemptions})
}

// ApproveRedemption handles POST /api/admin/redemptions/{id}/approve. A
// second approval of the same redemption gets a conflict, not a double
// credit.
func (h *AdminHandler) ApproveRedemption(w http.ResponseWriter, r *http.Request) {
	redemptionID, err := pathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid redemption id")
		return
	}

	credited, err := h.redemptions.Approve(r.Context(), redemptionID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ApproveResponse{OK: true, Credited: credited})
}

// History handles GET /api/admin/history: the full audit log, all tasks and
// all redemptions.
func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.history.ForAdmin(r.Context())
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, history)
}

package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users     service.UserService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		validator: validator.New(),
		logger:    logger.With("component", "auth_handler"),
	}
}

// Register handles the /api/auth/register endpoint. The client address is
// the signup origin: one account per origin.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "username/password required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, clientOrigin(r))
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		OK:     true,
		UserID: user.ID,
		Coins:  user.Coins,
	})
}

// Login handles the /api/auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "username/password required")
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserView(user),
	})
}

// clientOrigin returns the request's client address without the port.
// chi's RealIP middleware has already resolved proxy headers into
// RemoteAddr by the time this runs.
func clientOrigin(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

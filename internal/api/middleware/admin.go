package middleware

import (
	"log/slog"
	"net/http"

	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/service"
)

// AdminMiddleware gates routes to admin accounts. It runs after
// Authenticate, resolving the context user and checking the admin flag.
type AdminMiddleware struct {
	users service.UserService
}

// NewAdminMiddleware creates a new AdminMiddleware.
func NewAdminMiddleware(users service.UserService) *AdminMiddleware {
	return &AdminMiddleware{users: users}
}

// RequireAdmin rejects requests from non-admin users.
func (m *AdminMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			slog.Error("failed to resolve admin user", "error", err, "user_id", userID)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authorization error")
			return
		}
		if !user.IsAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

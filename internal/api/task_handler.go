package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/visitly/visitly/internal/api/middleware"
	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/task"
)

// TaskHandler handles visit-task API requests.
type TaskHandler struct {
	manager   *task.Manager
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(manager *task.Manager, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		manager:   manager,
		validator: validator.New(),
		logger:    logger.With("component", "task_handler"),
	}
}

// Start handles POST /api/tasks.
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "uid and a positive visit count are required")
		return
	}

	created, coinsUsed, err := h.manager.Start(r.Context(), userID, req.UID, req.Visits)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, StartTaskResponse{
		OK:        true,
		TaskID:    created.ID,
		CoinsUsed: coinsUsed,
	})
}

// Stop handles POST /api/tasks/{id}/stop.
func (h *TaskHandler) Stop(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.manager.Stop(r.Context(), userID, taskID); err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// Get handles GET /api/tasks/{id}: the durable record merged with the live
// snapshot when the worker is still running.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	view, err := h.manager.Get(r.Context(), userID, taskID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	views, err := h.manager.List(r.Context(), userID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]task.View{"tasks": views})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/visitly/internal/api"
	apimiddleware "github.com/visitly/visitly/internal/api/middleware"
	"github.com/visitly/visitly/internal/config"
	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/platform/jsonfile"
	"github.com/visitly/visitly/internal/service"
	"github.com/visitly/visitly/internal/service/auth"
	"github.com/visitly/visitly/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubCounter always reports the same counter value, so started tasks stay
// running until stopped or shut down.
type stubCounter struct{ value int }

func (c *stubCounter) SuccessfulVisits(ctx context.Context, uid string) (int, error) {
	return c.value, nil
}

type testApp struct {
	router http.Handler
	users  service.UserService
}

// newTestApp assembles the full HTTP stack over temp-dir stores, mirroring
// the production wiring.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	log := testLogger()
	userStore := jsonfile.NewUserStore(dir, log)
	taskStore := jsonfile.NewTaskStore(dir, log)
	auditStore := jsonfile.NewAuditStore(dir, log)
	redemptionStore := jsonfile.NewRedemptionStore(dir, log)
	settingsStore := jsonfile.NewSettingsStore(dir)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:       strings.Repeat("s", 32),
		TokenExpiryDays: 7,
	})
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher()

	coinLedger := ledger.New(userStore, auditStore, log)
	userService := service.NewUserService(userStore, coinLedger, jwtService, hasher, hasher, 10, log)
	redemptionService := service.NewRedemptionService(redemptionStore, coinLedger, 5.0, log)
	historyService := service.NewHistoryService(auditStore, taskStore, redemptionStore, log)

	manager := task.NewManager(taskStore, coinLedger, task.NewRegistry(), &stubCounter{value: 100}, task.ManagerConfig{
		VisitsPerCoin:   1000,
		PollInterval:    5 * time.Millisecond,
		MaxTasksPerUser: 3,
		MaxTotalWorkers: 10,
	}, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = manager.Shutdown(ctx)
	})

	fallback := domain.EconomySettings{VisitsPerCoin: 1000, RupeePerCoin: 5, SignupBonus: 10, PollIntervalSeconds: 10}
	require.NoError(t, settingsStore.Save(context.Background(), fallback))

	authHandler := api.NewAuthHandler(userService, log)
	taskHandler := api.NewTaskHandler(manager, log)
	redemptionHandler := api.NewRedemptionHandler(redemptionService, log)
	historyHandler := api.NewHistoryHandler(historyService, log)
	adminHandler := api.NewAdminHandler(userService, redemptionService, historyService, log)
	settingsHandler := api.NewSettingsHandler(settingsStore, fallback, log)

	authMiddleware := apimiddleware.NewAuthMiddleware(jwtService)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.NewTraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/settings", settingsHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.Start)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Post("/tasks/{id}/stop", taskHandler.Stop)
			r.Get("/history", historyHandler.ForUser)
			r.Post("/redemptions", redemptionHandler.Request)
			r.Get("/redemptions", redemptionHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(adminMiddleware.RequireAdmin)
				r.Get("/admin/users", adminHandler.ListUsers)
				r.Post("/admin/users/{id}/coins", adminHandler.AddCoins)
				r.Get("/admin/redemptions", adminHandler.ListRedemptions)
				r.Post("/admin/redemptions/{id}/approve", adminHandler.ApproveRedemption)
				r.Get("/admin/history", adminHandler.History)
			})
		})
	})

	return &testApp{router: r, users: userService}
}

func (app *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) register(t *testing.T, username string) {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (app *testApp) login(t *testing.T, username string) string {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OK     bool  `json:"ok"`
		UserID int64 `json:"user_id"`
		Coins  int   `json:"coins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 10, resp.Coins)

	// httptest requests all share one client address, so a second signup
	// trips the one-account-per-origin rule.
	rec = app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
		"password": "secret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "One account per ip/device allowed")

	rec = app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "alice")

	token := app.login(t, "alice")
	assert.NotEmpty(t, token)

	rec := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "alice")
	token := app.login(t, "alice")

	t.Run("requires authentication", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/tasks", "", map[string]any{"uid": "u", "visits": 100})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("starts, lists and stops a task", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/tasks", token, map[string]any{"uid": "target-1", "visits": 500})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var started struct {
			OK        bool  `json:"ok"`
			TaskID    int64 `json:"task_id"`
			CoinsUsed int   `json:"coins_used"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
		assert.True(t, started.OK)
		assert.Equal(t, 1, started.CoinsUsed)

		rec = app.do(t, http.MethodGet, "/api/tasks", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "target-1")

		rec = app.do(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/stop", started.TaskID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Eventually(t, func() bool {
			rec := app.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", started.TaskID), token, nil)
			return rec.Code == http.StatusOK && strings.Contains(rec.Body.String(), `"status":"stopped"`)
		}, 5*time.Second, 5*time.Millisecond)
	})

	t.Run("insufficient coins is a client error", func(t *testing.T) {
		// The signup bonus is 10 coins; 20000 visits cost 20.
		rec := app.do(t, http.MethodPost, "/api/tasks", token, map[string]any{"uid": "target-2", "visits": 20000})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Insufficient coins")
	})

	t.Run("rejects non-positive visit counts", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/tasks", token, map[string]any{"uid": "target-3", "visits": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "alice")
	userToken := app.login(t, "alice")

	require.NoError(t, app.users.EnsureAdmin(context.Background(), "admin", "secret"))
	adminToken := app.login(t, "admin")

	t.Run("non-admin is forbidden", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/admin/users", userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("lists users without password hashes", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
		assert.NotContains(t, rec.Body.String(), "password_hash")
	})

	t.Run("credits coins", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/admin/users/1/coins", adminToken, map[string]int{"coins": 5})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"coins":15`)
	})

	t.Run("approves a redemption exactly once", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/redemptions", userToken, map[string]float64{"amount": 25})
		require.Equal(t, http.StatusCreated, rec.Code)

		var redemption struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &redemption))

		path := fmt.Sprintf("/api/admin/redemptions/%d/approve", redemption.ID)
		rec = app.do(t, http.MethodPost, path, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"credited":5`)

		rec = app.do(t, http.MethodPost, path, adminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSettingsEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		VisitsPerCoin int     `json:"visits_per_coin"`
		RupeePerCoin  float64 `json:"rupee_per_coin"`
		SignupBonus   int     `json:"signup_bonus"`
		HitInterval   int     `json:"hit_interval"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1000, resp.VisitsPerCoin)
	assert.Equal(t, 5.0, resp.RupeePerCoin)
	assert.Equal(t, 10, resp.SignupBonus)
	assert.Equal(t, 10, resp.HitInterval)
}

func TestHistoryEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "alice")
	token := app.login(t, "alice")

	rec := app.do(t, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.AuditActionSignup)
}

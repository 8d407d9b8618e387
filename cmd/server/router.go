package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/visitly/visitly/internal/api"
	apiMiddleware "github.com/visitly/visitly/internal/api/middleware"
	"github.com/visitly/visitly/internal/domain"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.manager, app.logger)
	redemptionHandler := api.NewRedemptionHandler(app.redemptions, app.logger)
	historyHandler := api.NewHistoryHandler(app.history, app.logger)
	adminHandler := api.NewAdminHandler(app.userService, app.redemptions, app.history, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settings, app.economySettings(), app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	adminMiddleware := apiMiddleware.NewAdminMiddleware(app.userService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/settings", settingsHandler.Get)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.Start)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Post("/tasks/{id}/stop", taskHandler.Stop)

			r.Get("/history", historyHandler.ForUser)

			r.Post("/redemptions", redemptionHandler.Request)
			r.Get("/redemptions", redemptionHandler.List)

			// Admin endpoints
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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// economySettings builds the durable settings snapshot from configuration.
func (app *application) economySettings() domain.EconomySettings {
	return domain.EconomySettings{
		VisitsPerCoin:       app.config.Economy.VisitsPerCoin,
		RupeePerCoin:        app.config.Economy.RupeePerCoin,
		SignupBonus:         app.config.Economy.SignupBonus,
		PollIntervalSeconds: app.config.Visits.PollIntervalSeconds,
	}
}

// Command server runs the visit-exchange API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visitly/visitly/internal/config"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/platform/jsonfile"
	"github.com/visitly/visitly/internal/platform/logger"
	"github.com/visitly/visitly/internal/platform/visitapi"
	"github.com/visitly/visitly/internal/service"
	"github.com/visitly/visitly/internal/service/auth"
	"github.com/visitly/visitly/internal/store"
	"github.com/visitly/visitly/internal/task"
)

// application bundles the wired dependencies so the router and shutdown
// logic can reach them.
type application struct {
	config *config.Config
	logger *slog.Logger

	settings    store.SettingsStore
	jwtService  auth.JWTService
	userService service.UserService
	redemptions service.RedemptionService
	history     service.HistoryService
	manager     *task.Manager
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Setup(cfg.Server)

	app, err := buildApplication(cfg, log)
	if err != nil {
		return err
	}

	return app.serve()
}

// buildApplication wires stores, services and the task manager.
func buildApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	if err := os.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	userStore := jsonfile.NewUserStore(cfg.Store.DataDir, log)
	taskStore := jsonfile.NewTaskStore(cfg.Store.DataDir, log)
	auditStore := jsonfile.NewAuditStore(cfg.Store.DataDir, log)
	redemptionStore := jsonfile.NewRedemptionStore(cfg.Store.DataDir, log)
	settingsStore := jsonfile.NewSettingsStore(cfg.Store.DataDir)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("create jwt service: %w", err)
	}
	hasher := auth.NewBcryptHasher()

	coinLedger := ledger.New(userStore, auditStore, log)

	userService := service.NewUserService(
		userStore, coinLedger, jwtService, hasher, hasher,
		cfg.Economy.SignupBonus, log,
	)
	redemptionService := service.NewRedemptionService(
		redemptionStore, coinLedger, cfg.Economy.RupeePerCoin, log,
	)
	historyService := service.NewHistoryService(auditStore, taskStore, redemptionStore, log)

	counter := visitapi.NewClient(
		cfg.Visits.APITemplate,
		time.Duration(cfg.Visits.RequestTimeoutSeconds)*time.Second,
	)
	manager := task.NewManager(taskStore, coinLedger, task.NewRegistry(), counter, task.ManagerConfig{
		VisitsPerCoin:   cfg.Economy.VisitsPerCoin,
		PollInterval:    time.Duration(cfg.Visits.PollIntervalSeconds) * time.Second,
		MaxTasksPerUser: cfg.Visits.MaxTasksPerUser,
		MaxTotalWorkers: cfg.Visits.MaxTotalWorkers,
	}, log)

	app := &application{
		config:      cfg,
		logger:      log,
		settings:    settingsStore,
		jwtService:  jwtService,
		userService: userService,
		redemptions: redemptionService,
		history:     historyService,
		manager:     manager,
	}

	if err := app.bootstrap(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap seeds the admin account and persists the economy snapshot.
func (app *application) bootstrap(ctx context.Context) error {
	if err := app.userService.EnsureAdmin(ctx, app.config.Admin.Username, app.config.Admin.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := app.settings.Save(ctx, app.economySettings()); err != nil {
		return fmt.Errorf("save settings snapshot: %w", err)
	}
	return nil
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains workers
// and in-flight requests.
func (app *application) serve() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      app.setupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	serverErrCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	select {
	case sig := <-shutdownCh:
		app.logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Workers first so their final state lands in the store before exit.
	if err := app.manager.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("worker shutdown incomplete", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}

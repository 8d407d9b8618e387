package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/store"
)

// Counter fetches the current successful-visit count for a target uid.
type Counter interface {
	SuccessfulVisits(ctx context.Context, uid string) (int, error)
}

// ManagerConfig holds configuration for the lifecycle manager.
type ManagerConfig struct {
	// VisitsPerCoin sets the coin cost rate: cost = ceil(visits / rate).
	VisitsPerCoin int

	// PollInterval is how long a worker sleeps between polls.
	// Non-positive values fall back to one second.
	PollInterval time.Duration

	// MaxTasksPerUser caps a single user's pending+running tasks.
	MaxTasksPerUser int

	// MaxTotalWorkers caps live worker goroutines process-wide.
	MaxTotalWorkers int
}

// Manager owns task state transitions: it admits start requests under the
// per-user and global caps, debits the coin cost, persists the task record
// and spawns the poll worker. It is the only component that creates or
// stops workers.
type Manager struct {
	tasks    store.TaskStore
	ledger   *ledger.Ledger
	registry *Registry
	counter  Counter
	config   ManagerConfig
	logger   *slog.Logger

	// startMu makes admission-check-and-spawn a single critical section so
	// two concurrent starts cannot both pass the cap checks.
	startMu sync.Mutex

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewManager creates a Manager. Workers run until completion, cancellation
// or Shutdown.
func NewManager(
	tasks store.TaskStore,
	coinLedger *ledger.Ledger,
	registry *Registry,
	counter Counter,
	config ManagerConfig,
	logger *slog.Logger,
) *Manager {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		tasks:      tasks,
		ledger:     coinLedger,
		registry:   registry,
		counter:    counter,
		config:     config,
		logger:     logger.With("component", "task_manager"),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start admits, debits and launches a new visit task for the user.
//
// Admission runs under a process-wide lock: the per-user cap and the global
// worker cap are both checked before anything is created or debited; at
// either cap the request fails fast with no side effects. On success the
// coin cost is debited (with its audit entry), the task record persisted as
// pending, and the poll worker registered and spawned.
func (m *Manager) Start(ctx context.Context, userID int64, targetUID string, requestedVisits int) (*domain.Task, int, error) {
	if requestedVisits <= 0 {
		return nil, 0, domain.ErrNonPositiveVisits
	}

	m.startMu.Lock()
	defer m.startMu.Unlock()

	active, err := m.tasks.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count active tasks: %w", err)
	}
	if active >= m.config.MaxTasksPerUser {
		return nil, 0, ErrUserTaskLimit
	}

	if m.registry.LiveWorkers() >= m.config.MaxTotalWorkers {
		return nil, 0, ErrServerBusy
	}

	cost := ledger.CostForVisits(requestedVisits, m.config.VisitsPerCoin)

	task, err := domain.NewTask(userID, targetUID, requestedVisits, cost)
	if err != nil {
		return nil, 0, err
	}

	note := fmt.Sprintf("requested %d uid %s", requestedVisits, targetUID)
	if _, err := m.ledger.Debit(ctx, domain.ActorUser, userID, cost, domain.AuditActionStartTask, note); err != nil {
		return nil, 0, err
	}

	// A failure past this point leaves the debit in place. Known gap: the
	// debit and the task persist are not one transaction.
	if err := m.tasks.Create(ctx, task); err != nil {
		m.logger.Error("task persist failed after debit",
			"user_id", userID,
			"coins", cost,
			"error", err)
		return nil, 0, fmt.Errorf("persist task: %w", err)
	}

	if !m.registry.TryAdmit(task.ID, m.config.MaxTotalWorkers) {
		// Unreachable while startMu is held: workers only release slots.
		m.logger.Error("worker admission failed after debit", "task_id", task.ID)
		return nil, 0, ErrServerBusy
	}

	m.wg.Add(1)
	go m.runWorker(task.ID)

	m.logger.Info("task started",
		"task_id", task.ID,
		"user_id", userID,
		"target_uid", targetUID,
		"requested_visits", requestedVisits,
		"coins_used", cost,
		"live_workers", m.registry.LiveWorkers())

	return task, cost, nil
}

// Stop requests cooperative cancellation of the user's task. The worker
// observes the flag at its next poll boundary, so termination is bounded by
// the poll interval. Stopping a task that already reached a terminal state
// is a no-op, not an error.
func (m *Manager) Stop(ctx context.Context, userID, taskID int64) error {
	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return ErrForbidden
	}

	if m.registry.RequestStop(taskID) {
		m.logger.Info("stop requested", "task_id", taskID, "user_id", userID)
	}
	return nil
}

// Get returns the user's task merged with its live snapshot when present.
func (m *Manager) Get(ctx context.Context, userID, taskID int64) (*View, error) {
	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}

	snap, live := m.registry.Snapshot(taskID)
	view := newView(*task, snap, live)
	return &view, nil
}

// List returns all of the user's tasks, each merged with its live snapshot
// when present.
func (m *Manager) List(ctx context.Context, userID int64) ([]View, error) {
	tasks, err := m.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(tasks))
	for _, t := range tasks {
		snap, live := m.registry.Snapshot(t.ID)
		views = append(views, newView(t, snap, live))
	}
	return views, nil
}

// Shutdown cancels all workers and waits for them to exit, bounded by ctx.
// In-flight progress snapshots are lost; the persisted records keep their
// last durable write.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancelFunc()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

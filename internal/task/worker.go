package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/platform/visitapi"
	"github.com/visitly/visitly/internal/store"
)

// runWorker is the poll worker: one goroutine per active task, the sole
// writer of that task's record once running.
//
// State machine: Starting -> Running -> {Completed, Stopped, Aborted}.
// Poll failures are recoverable: they append a note and the loop goes on
// with no retry cap and no backoff. Only cancellation or reaching the
// requested visit count ends the loop through a status change.
func (m *Manager) runWorker(taskID int64) {
	defer m.wg.Done()
	// Slot, flag and snapshot cleanup must happen on every exit path.
	defer m.registry.Release(taskID)

	logger := m.logger.With("component", "poll_worker", "task_id", taskID)
	ctx := m.ctx

	// Starting: load our own record. A vanished task means there is
	// nothing to run and nowhere durable to report it, so exit silently.
	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("failed to load task record", "error", err)
		}
		return
	}
	targetUID := task.TargetUID
	requested := task.RequestedVisits

	startedAt := time.Now().UTC()
	if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
		if err := t.SetStatus(domain.TaskStatusRunning); err != nil {
			return err
		}
		t.StartedAt = &startedAt
		return nil
	}); err != nil {
		logger.Error("failed to mark task running", "error", err)
		return
	}

	// Best-effort baseline sample. On failure fall back to any previously
	// stored value, or 0, and proceed. A bad sample here is non-fatal.
	start, err := m.counter.SuccessfulVisits(ctx, targetUID)
	if err != nil {
		start = 0
		if task.StartSuccessful != nil {
			start = *task.StartSuccessful
		}
		logger.Warn("start sample failed, using fallback baseline",
			"error", err,
			"baseline", start)
	}
	if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
		s, l := start, start
		t.StartSuccessful = &s
		t.LastSuccessful = &l
		return nil
	}); err != nil {
		logger.Error("failed to persist baseline", "error", err)
		return
	}

	m.registry.PublishSnapshot(taskID, Snapshot{
		StartSuccessful: start,
		LastSuccessful:  start,
		Requested:       requested,
		Status:          domain.TaskStatusRunning,
	})

	logger.Info("worker running",
		"target_uid", targetUID,
		"requested_visits", requested,
		"baseline", start)

	last := start
	for {
		// Cancellation checkpoint: loop boundary only.
		if m.registry.StopRequested(taskID) {
			m.persistStopped(ctx, taskID, logger)
			return
		}
		if ctx.Err() != nil {
			// Process shutdown. The last durable write stands.
			logger.Info("worker exiting on shutdown")
			return
		}

		cur, err := m.counter.SuccessfulVisits(ctx, targetUID)
		if err == nil || errors.Is(err, visitapi.ErrMissingField) {
			if err != nil {
				// Payload without the counter field: reuse the last
				// known value rather than crashing on a malformed body.
				cur = last
			}
			last = cur
			gained := cur - start

			m.registry.PublishSnapshot(taskID, Snapshot{
				StartSuccessful: start,
				LastSuccessful:  cur,
				Gained:          gained,
				Requested:       requested,
				Status:          domain.TaskStatusRunning,
			})
			if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
				c := cur
				t.LastSuccessful = &c
				return nil
			}); err != nil {
				logger.Error("failed to persist progress", "error", err)
			}

			if gained >= requested {
				m.persistCompleted(ctx, taskID, cur, gained, logger)
				return
			}
		} else {
			var statusErr *visitapi.StatusError
			var line string
			if errors.As(err, &statusErr) {
				line = fmt.Sprintf("API error %d at %s", statusErr.Code, nowISO())
			} else {
				line = fmt.Sprintf("Exception %v at %s", err, nowISO())
			}
			logger.Warn("poll failed", "error", err)
			m.appendNote(ctx, taskID, line, logger)
		}

		if !m.sleepInterval() {
			logger.Info("worker exiting on shutdown")
			return
		}
	}
}

// persistStopped records cooperative cancellation: status moves to stopped
// and the task keeps its last persisted counter value as final progress.
func (m *Manager) persistStopped(ctx context.Context, taskID int64, logger *slog.Logger) {
	if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
		if err := t.SetStatus(domain.TaskStatusStopped); err != nil {
			return err
		}
		t.AppendNote(fmt.Sprintf("Stopped at %s", nowISO()))
		return nil
	}); err != nil {
		logger.Error("failed to persist stopped status", "error", err)
		return
	}
	logger.Info("worker stopped by request")
}

// persistCompleted records target reached: status moves to completed with a
// completion timestamp.
func (m *Manager) persistCompleted(ctx context.Context, taskID int64, cur, gained int, logger *slog.Logger) {
	completedAt := time.Now().UTC()
	if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
		if err := t.SetStatus(domain.TaskStatusCompleted); err != nil {
			return err
		}
		t.CompletedAt = &completedAt
		return nil
	}); err != nil {
		logger.Error("failed to persist completed status", "error", err)
		return
	}
	logger.Info("worker completed", "last_successful", cur, "gained", gained)
}

// appendNote appends a diagnostic line to the task record. Failures here
// are logged and swallowed; the poll loop continues regardless.
func (m *Manager) appendNote(ctx context.Context, taskID int64, line string, logger *slog.Logger) {
	if _, err := m.tasks.Mutate(ctx, taskID, func(t *domain.Task) error {
		t.AppendNote(line)
		return nil
	}); err != nil {
		logger.Error("failed to append task note", "error", err)
	}
}

// sleepInterval waits out the poll interval. Reports false when the manager
// is shutting down. Task cancellation is deliberately not checked here:
// the flag is a loop-boundary checkpoint, so a stop during the sleep takes
// effect at the next iteration.
func (m *Manager) sleepInterval() bool {
	timer := time.NewTimer(m.config.PollInterval)
	defer timer.Stop()

	select {
	case <-m.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

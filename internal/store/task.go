package store

import (
	"context"

	"github.com/visitly/visitly/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// A task record has exactly one writer once running: its own poll worker.
// Mutate is still the only write path so every read-modify-write of the
// tasks collection happens under the collection lock.
type TaskStore interface {
	// Create saves a new task and assigns its ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByUser returns all tasks owned by the given user.
	ListByUser(ctx context.Context, userID int64) ([]domain.Task, error)

	// List returns all tasks.
	List(ctx context.Context) ([]domain.Task, error)

	// CountActiveByUser returns how many of the user's tasks are pending
	// or running. Used for per-user admission control.
	CountActiveByUser(ctx context.Context, userID int64) (int, error)

	// Mutate applies fn to the stored task under the collection lock and
	// writes the collection back. If fn returns an error nothing is
	// written. Returns the updated task, or ErrTaskNotFound.
	Mutate(ctx context.Context, id int64, fn func(*domain.Task) error) (*domain.Task, error)
}

package jsonfile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

// TaskStore implements store.TaskStore over the tasks collection.
type TaskStore struct {
	c      *collection[domain.Task]
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore rooted at dataDir.
func NewTaskStore(dataDir string, logger *slog.Logger) *TaskStore {
	return &TaskStore{
		c:      newCollection[domain.Task](dataDir, "tasks"),
		logger: logger.With("component", "task_store"),
	}
}

// Create saves a new task and assigns its ID.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	tasks, err := s.c.load()
	if err != nil {
		return err
	}

	task.ID = nextID(tasks, func(t domain.Task) int64 { return t.ID })
	tasks = append(tasks, *task)

	if err := s.c.save(tasks); err != nil {
		return err
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"user_id", task.UserID,
		"requested_visits", task.RequestedVisits)
	return nil
}

// GetByID retrieves a task by ID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	tasks, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// ListByUser returns all tasks owned by the given user.
func (s *TaskStore) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	tasks, err := s.c.load()
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Task, 0)
	for i := range tasks {
		if tasks[i].UserID == userID {
			owned = append(owned, tasks[i])
		}
	}
	return owned, nil
}

// List returns all tasks.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.load()
}

// CountActiveByUser returns how many of the user's tasks are pending or
// running.
func (s *TaskStore) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	tasks, err := s.c.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range tasks {
		if tasks[i].UserID == userID && !tasks[i].Status.Terminal() {
			count++
		}
	}
	return count, nil
}

// Mutate applies fn to the stored task with the collection lock held across
// the whole read-modify-write cycle.
func (s *TaskStore) Mutate(ctx context.Context, id int64, fn func(*domain.Task) error) (*domain.Task, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	tasks, err := s.c.load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			if err := fn(&tasks[i]); err != nil {
				return nil, err
			}
			if err := s.c.save(tasks); err != nil {
				return nil, err
			}
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus represents the current state of a visit-generation task.
type TaskStatus string

// Possible task status values. A task only ever moves forward through
// pending -> running -> {completed, stopped}.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusStopped   TaskStatus = "stopped"
)

// Common task validation errors
var (
	ErrEmptyTargetUID     = errors.New("target uid cannot be empty")
	ErrNonPositiveVisits  = errors.New("requested visits must be positive")
	ErrNegativeDeduction  = errors.New("coins deducted cannot be negative")
)

// Terminal reports whether the status is a terminal one. Terminal tasks are
// immutable apart from note appends by their own worker.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusStopped
}

// rank orders statuses along the lifecycle so transitions can be checked.
func (s TaskStatus) rank() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusRunning:
		return 1
	case TaskStatusCompleted, TaskStatusStopped:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo reports whether moving from s to next is a forward move
// through the lifecycle.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.rank() < 0 || next.rank() < 0 {
		return false
	}
	return next.rank() > s.rank()
}

// Task identifies one visit-generation job: a user paid CoinsDeducted to
// drive the external counter for TargetUID up by RequestedVisits.
//
// StartSuccessful and LastSuccessful are the external counter values sampled
// at worker start and most recently; both are nil until sampled. Their
// difference is the "gained" count that drives completion.
type Task struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	TargetUID       string     `json:"uid"`
	RequestedVisits int        `json:"requested_visits"`
	CoinsDeducted   int        `json:"coins_deducted"`
	Status          TaskStatus `json:"status"`
	StartSuccessful *int       `json:"start_successful"`
	LastSuccessful  *int       `json:"last_successful"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	Note            string     `json:"note"`
}

// NewTask creates a new pending Task. The ID is assigned by the store on
// first save. CoinsDeducted is fixed here and never recomputed.
func NewTask(userID int64, targetUID string, requestedVisits, coinsDeducted int) (*Task, error) {
	task := &Task{
		UserID:          userID,
		TargetUID:       targetUID,
		RequestedVisits: requestedVisits,
		CoinsDeducted:   coinsDeducted,
		Status:          TaskStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.TargetUID == "" {
		return ErrEmptyTargetUID
	}
	if t.RequestedVisits <= 0 {
		return ErrNonPositiveVisits
	}
	if t.CoinsDeducted < 0 {
		return ErrNegativeDeduction
	}
	return nil
}

// SetStatus moves the task forward to next. Backward moves and
// terminal-to-terminal moves fail with ErrStatusTransition.
func (t *Task) SetStatus(next TaskStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s to %s", ErrStatusTransition, t.Status, next)
	}
	t.Status = next
	return nil
}

// Gained returns the visits gained so far: the difference between the last
// and the start counter samples, or 0 while either is still unsampled.
func (t *Task) Gained() int {
	if t.StartSuccessful == nil || t.LastSuccessful == nil {
		return 0
	}
	return *t.LastSuccessful - *t.StartSuccessful
}

// AppendNote appends a timestamped diagnostic line to the task's note log.
// The note is append-only; lines are never rewritten.
func (t *Task) AppendNote(line string) {
	t.Note += fmt.Sprintf("\n%s", line)
}

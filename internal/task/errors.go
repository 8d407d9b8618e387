package task

import "errors"

// Caller-facing errors returned by the lifecycle manager. Worker-internal
// poll failures are never surfaced as errors; they accumulate as notes on
// the task record.
var (
	// ErrUserTaskLimit is returned when the user already has the maximum
	// number of pending/running tasks.
	ErrUserTaskLimit = errors.New("max concurrent tasks reached")

	// ErrServerBusy is returned when the global live-worker cap is
	// reached. Nothing is created and nothing is debited.
	ErrServerBusy = errors.New("server busy")

	// ErrForbidden is returned when a task does not belong to the caller.
	ErrForbidden = errors.New("task belongs to another user")
)

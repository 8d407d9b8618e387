// Package task implements the visit-task execution subsystem: the lifecycle
// manager that admits, debits and spawns tasks, the per-task poll worker
// that drives a task to completion against the external counter, and the
// process-wide registry holding cancellation flags, live progress snapshots
// and worker handles.
//
// Scheduling is one goroutine per active task. Cancellation is cooperative:
// a stop request sets a flag the worker observes only at the top of its
// poll loop, so termination is bounded by the poll interval, never
// preemptive mid-request.
package task

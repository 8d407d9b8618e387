package task

import (
	"sync"

	"github.com/visitly/visitly/internal/domain"
)

// Snapshot is the transient, in-memory progress view of a running task. It
// lives from worker start to worker exit and is lost on process restart;
// the persisted task record remains the durable fallback.
type Snapshot struct {
	StartSuccessful int               `json:"start_successful"`
	LastSuccessful  int               `json:"last_successful"`
	Gained          int               `json:"gained"`
	Requested       int               `json:"requested"`
	Status          domain.TaskStatus `json:"status"`
}

// Registry is the process-wide table of live worker state: cancellation
// flags, progress snapshots and execution handles, keyed by task ID.
//
// Ownership is fixed: the lifecycle manager inserts entries at spawn, the
// owning worker mutates and removes them, and queries only read. The
// mutex makes the global count-and-register step a single critical section.
type Registry struct {
	mu        sync.Mutex
	stops     map[int64]bool
	snapshots map[int64]Snapshot
	handles   map[int64]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		stops:     make(map[int64]bool),
		snapshots: make(map[int64]Snapshot),
		handles:   make(map[int64]struct{}),
	}
}

// TryAdmit atomically checks the global cap and, when there is room and no
// worker already exists for the task, registers the task's execution handle
// and cancellation flag. Reports whether the worker may be spawned.
func (r *Registry) TryAdmit(taskID int64, globalCap int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.handles) >= globalCap {
		return false
	}
	if _, exists := r.handles[taskID]; exists {
		return false
	}
	r.handles[taskID] = struct{}{}
	r.stops[taskID] = false
	return true
}

// LiveWorkers returns the number of registered worker executions.
func (r *Registry) LiveWorkers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// HasWorker reports whether a live worker is registered for the task.
func (r *Registry) HasWorker(taskID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[taskID]
	return ok
}

// RequestStop sets the task's cancellation flag. The owning worker observes
// it at its next loop boundary. Reports whether a live entry existed.
func (r *Registry) RequestStop(taskID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stops[taskID]; !ok {
		return false
	}
	r.stops[taskID] = true
	return true
}

// StopRequested reports whether the task's cancellation flag is set.
func (r *Registry) StopRequested(taskID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops[taskID]
}

// PublishSnapshot stores the task's live progress snapshot.
func (r *Registry) PublishSnapshot(taskID int64, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[taskID] = snap
}

// Snapshot returns the task's live progress snapshot, if a worker has
// published one.
func (r *Registry) Snapshot(taskID int64) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snapshots[taskID]
	return snap, ok
}

// Release removes the task's handle, cancellation flag and snapshot. Run by
// the owning worker on every exit path, including panics and early aborts.
func (r *Registry) Release(taskID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, taskID)
	delete(r.stops, taskID)
	delete(r.snapshots, taskID)
}

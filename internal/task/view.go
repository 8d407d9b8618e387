package task

import "github.com/visitly/visitly/internal/domain"

// View is a task record merged with its live progress snapshot when one
// exists. The snapshot overlays the volatile fields (status, counter
// samples, gained) for a fresher read; the persisted fields remain the
// fallback of record.
type View struct {
	domain.Task
	Gained int  `json:"gained"`
	Live   bool `json:"live"`
}

func newView(t domain.Task, snap Snapshot, live bool) View {
	view := View{Task: t, Gained: t.Gained()}
	if live {
		start := snap.StartSuccessful
		last := snap.LastSuccessful
		view.Live = true
		view.Status = snap.Status
		view.StartSuccessful = &start
		view.LastSuccessful = &last
		view.Gained = snap.Gained
	}
	return view
}

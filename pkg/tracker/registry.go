package tracker

import (
	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

// Registry owns the configured tracker instances for one analysis run and
// dispatches each completed request to the trackers whose filters pass it.
// One Registry is constructed per run and threaded through the correlation
// loop; there is no ambient global set.
type Registry struct {
	trackers []Tracker
}

// NewRegistry creates a registry over the given trackers.
func NewRegistry(trackers ...Tracker) *Registry {
	return &Registry{trackers: trackers}
}

// Add appends a tracker. Call before Prepare.
func (r *Registry) Add(t Tracker) {
	r.trackers = append(r.trackers, t)
}

// Len returns the number of registered trackers.
func (r *Registry) Len() int { return len(r.trackers) }

// Prepare prepares every tracker, failing fast on the first configuration
// error.
func (r *Registry) Prepare() error {
	for _, t := range r.trackers {
		if err := t.Prepare(); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch hands one completed request to every tracker whose filters
// accept it. Filter and update errors propagate unmodified and abort the
// run.
func (r *Registry) Dispatch(req *reqlog.Request) error {
	for _, t := range r.trackers {
		ok, err := t.Accepts(req)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := t.Update(req); err != nil {
			return err
		}
	}
	return nil
}

// Report renders every tracker's report in registration order.
func (r *Registry) Report(sink report.Sink) {
	for _, t := range r.trackers {
		t.Report(sink)
	}
}

// Exportables collects the non-nil snapshots in registration order.
func (r *Registry) Exportables() []*Snapshot {
	var out []*Snapshot
	for _, t := range r.trackers {
		if snap := t.Exportable(); snap != nil {
			out = append(out, snap)
		}
	}
	return out
}

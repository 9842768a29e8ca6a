package tracker

import (
	"errors"
	"fmt"

	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

// ErrConfiguration marks tracker configuration failures. They surface at
// Prepare time, never at first use.
var ErrConfiguration = errors.New("tracker configuration error")

// ErrUnknownTrackerKind is returned by New for an unrecognized kind.
var ErrUnknownTrackerKind = errors.New("unknown tracker kind")

// Tracker kinds accepted by New.
const (
	KindFrequency = "frequency"
	KindDuration  = "duration"
)

// Snapshot is a tracker's exportable state: the aggregate data in a form
// serializable to any structured text format.
type Snapshot struct {
	// Title is the report heading, falling back to the tracker kind.
	Title string `json:"title" yaml:"title"`

	// Kind identifies the tracker variant that produced the data.
	Kind string `json:"kind" yaml:"kind"`

	// Data maps category keys to the tracker's per-category aggregate:
	// an integer count for frequency, a stats object for duration.
	Data map[string]any `json:"data" yaml:"data"`
}

// Tracker is the aggregation capability. Concrete variants are selected by
// configuration through New, not by embedding chains.
type Tracker interface {
	// Prepare validates configuration and initializes aggregate state.
	// Missing mandatory options fail here with an ErrConfiguration wrap.
	Prepare() error

	// Accepts applies the tracker's if/unless/line_type filters. The
	// Registry consults it before Update.
	Accepts(req *reqlog.Request) (bool, error)

	// Update consumes one dispatched request, mutating only internal
	// aggregate state. Strategy errors propagate unmodified.
	Update(req *reqlog.Request) error

	// Report renders current state to the sink. Repeated calls with no
	// intervening Update produce identical output.
	Report(sink report.Sink)

	// Exportable returns a snapshot of collected state, or nil when no
	// data was collected.
	Exportable() *Snapshot
}

// New constructs a tracker variant by kind name, as configuration files
// select them.
func New(kind string, opts Options) (Tracker, error) {
	switch kind {
	case KindFrequency:
		return NewFrequency(opts), nil
	case KindDuration:
		return NewDuration(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTrackerKind, kind)
}

// filters holds the compiled gating strategies shared by all variants.
type filters struct {
	ifPred     predicate
	unlessPred predicate
	lineType   string
}

// compileFilters builds the gate from Options. Func fields win over
// expression sources.
func compileFilters(opts Options) (filters, error) {
	var f filters
	f.lineType = opts.LineType

	switch {
	case opts.IfFunc != nil:
		f.ifPred = funcPredicate{fn: opts.IfFunc}
	case opts.If != "":
		p, err := newExprPredicate(opts.If)
		if err != nil {
			return f, err
		}
		f.ifPred = p
	}

	switch {
	case opts.UnlessFunc != nil:
		f.unlessPred = funcPredicate{fn: opts.UnlessFunc}
	case opts.Unless != "":
		p, err := newExprPredicate(opts.Unless)
		if err != nil {
			return f, err
		}
		f.unlessPred = p
	}
	return f, nil
}

// accepts reports whether a request passes the gate.
func (f *filters) accepts(req *reqlog.Request) (bool, error) {
	if f.lineType != "" && !req.HasType(f.lineType) {
		return false, nil
	}
	if f.ifPred != nil {
		ok, err := f.ifPred.eval(req)
		if err != nil || !ok {
			return false, err
		}
	}
	if f.unlessPred != nil {
		excluded, err := f.unlessPred.eval(req)
		if err != nil || excluded {
			return false, err
		}
	}
	return true, nil
}

// compileCategorizer builds the category strategy from Options.
func compileCategorizer(opts Options) (categorizer, error) {
	if opts.CategoryFunc != nil {
		return funcCategorizer{fn: opts.CategoryFunc}, nil
	}
	if opts.Category != "" {
		return newExprCategorizer(opts.Category)
	}
	return nil, nil
}

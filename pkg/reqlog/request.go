package reqlog

import (
	"errors"

	"github.com/reqsift/reqsift/pkg/logline"
)

// ErrCompleted is returned when appending to a Request that has already
// completed. A completed Request is read-only.
var ErrCompleted = errors.New("request already completed")

// CompletionCause records why a Request completed.
type CompletionCause string

const (
	// CompletedByTerminal means the format's terminal line type was observed.
	CompletedByTerminal CompletionCause = "terminal"
	// CompletedByFlush means the input stream ended with the Request open.
	CompletedByFlush CompletionCause = "flush"
	// CompletedByEviction means the correlator evicted the Request to bound
	// the open working set. The Request is still emitted downstream.
	CompletedByEviction CompletionCause = "eviction"
)

// Request is an ordered sequence of log line entries sharing one correlation
// identity. It holds at least one entry and preserves arrival order.
type Request struct {
	key     string
	entries []*logline.Entry

	id          string
	completedBy CompletionCause
	completed   bool
}

// NewRequest opens a Request with its first entry. The correlation key may be
// empty for sequentially-correlated formats.
func NewRequest(key string, first *logline.Entry) *Request {
	if first == nil {
		panic("reqlog: NewRequest requires a first entry")
	}
	return &Request{
		key:     key,
		entries: []*logline.Entry{first},
	}
}

// Key returns the correlation identity this Request was opened under.
func (r *Request) Key() string { return r.key }

// ID returns the identifier assigned at completion. Empty while open.
func (r *Request) ID() string { return r.id }

// Append attaches an entry. Returns ErrCompleted once the Request has
// completed.
func (r *Request) Append(e *logline.Entry) error {
	if r.completed {
		return ErrCompleted
	}
	r.entries = append(r.entries, e)
	return nil
}

// Complete marks the Request completed with the given cause and identifier.
// Completing twice returns ErrCompleted.
func (r *Request) Complete(cause CompletionCause, id string) error {
	if r.completed {
		return ErrCompleted
	}
	r.completed = true
	r.completedBy = cause
	r.id = id
	return nil
}

// Completed reports whether the Request has completed.
func (r *Request) Completed() bool { return r.completed }

// CompletedBy returns the completion cause. Empty while open.
func (r *Request) CompletedBy() CompletionCause { return r.completedBy }

// Len returns the number of entries.
func (r *Request) Len() int { return len(r.entries) }

// Entries returns the entries in arrival order. The returned slice is a
// copy; the entries themselves are immutable.
func (r *Request) Entries() []*logline.Entry {
	out := make([]*logline.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// First returns the earliest entry.
func (r *Request) First() *logline.Entry { return r.entries[0] }

// Last returns the latest entry.
func (r *Request) Last() *logline.Entry { return r.entries[len(r.entries)-1] }

// FirstLineNo returns the source line number of the earliest entry.
func (r *Request) FirstLineNo() int { return r.First().LineNo() }

// LastLineNo returns the source line number of the latest entry.
func (r *Request) LastLineNo() int { return r.Last().LineNo() }

// Field returns the named field, resolved across all entries with
// later-arriving entries winning.
func (r *Request) Field(name string) (any, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if v, ok := r.entries[i].Field(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any entry defines the named field.
func (r *Request) Has(name string) bool {
	_, ok := r.Field(name)
	return ok
}

// Fields returns the merged field map, later entries overwriting earlier
// ones. The result is a fresh map.
func (r *Request) Fields() map[string]any {
	merged := make(map[string]any)
	for _, e := range r.entries {
		for k, v := range e.Fields() {
			merged[k] = v
		}
	}
	return merged
}

// LineTypes returns the distinct line types in first-appearance order.
func (r *Request) LineTypes() []string {
	seen := make(map[string]bool, len(r.entries))
	var types []string
	for _, e := range r.entries {
		if !seen[e.Type()] {
			seen[e.Type()] = true
			types = append(types, e.Type())
		}
	}
	return types
}

// HasType reports whether the Request contains an entry of the given line
// type.
func (r *Request) HasType(lineType string) bool {
	for _, e := range r.entries {
		if e.Type() == lineType {
			return true
		}
	}
	return false
}

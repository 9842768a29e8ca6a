// Package persist defines the persistence collaborator contract and a JSONL
// implementation of it.
//
// An Aggregator accepts completed requests and durably stores their entries.
// The storage mapping follows one relation per distinct line type: the JSONL
// aggregator keeps one <line_type>.jsonl stream per type, every record
// carrying a per-type sequence id, the source line number, and a back
// reference to the owning request's id, plus the entry's own fields. Schema
// derivation beyond that is entirely the aggregator's concern; the analysis
// core only hands requests over.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reqsift/reqsift/pkg/reqlog"
)

// ErrClosed is returned when persisting after Close.
var ErrClosed = errors.New("persistence aggregator closed")

// Aggregator durably stores completed requests. Implementations receive
// each request exactly once, after completion, and must not retain it past
// the Persist call beyond what they copied out.
type Aggregator interface {
	Persist(req *reqlog.Request) error
	Close() error
}

// record is one persisted line entry.
type record struct {
	ID        int64          `json:"id"`
	RequestID string         `json:"request_id"`
	LineNo    int            `json:"lineno"`
	Fields    map[string]any `json:"fields"`
}

// JSONL stores request entries as JSON lines, one file per line type under
// a target directory.
type JSONL struct {
	dir    string
	files  map[string]*os.File
	seq    map[string]int64
	closed bool
}

// NewJSONL creates the target directory and an aggregator writing into it.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create persist directory: %w", err)
	}
	return &JSONL{
		dir:   dir,
		files: make(map[string]*os.File),
		seq:   make(map[string]int64),
	}, nil
}

// Persist implements Aggregator. Each entry goes to its line type's stream.
func (j *JSONL) Persist(req *reqlog.Request) error {
	if j.closed {
		return ErrClosed
	}
	for _, e := range req.Entries() {
		f, err := j.file(e.Type())
		if err != nil {
			return err
		}
		j.seq[e.Type()]++
		rec := record{
			ID:        j.seq[e.Type()],
			RequestID: req.ID(),
			LineNo:    e.LineNo(),
			Fields:    e.Fields(),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", e.Type(), err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write %s record: %w", e.Type(), err)
		}
	}
	return nil
}

// Close flushes and closes every open stream.
func (j *JSONL) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	var firstErr error
	for lineType, f := range j.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s stream: %w", lineType, err)
		}
	}
	return firstErr
}

func (j *JSONL) file(lineType string) (*os.File, error) {
	if f, ok := j.files[lineType]; ok {
		return f, nil
	}
	path := filepath.Join(j.dir, lineType+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", lineType, err)
	}
	j.files[lineType] = f
	return f, nil
}

package logline

import "sort"

// Entry is one parsed log line: a line type tag, the typed fields captured
// from the raw text, and provenance (line number, raw line).
//
// Field values are whatever the format's capture kinds produced: string,
// int64, float64, bool, time.Duration, or time.Time.
type Entry struct {
	lineType string
	fields   map[string]any
	lineNo   int
	raw      string
}

// New constructs an Entry. The field map is copied, so the caller may reuse
// or mutate its map afterwards.
func New(lineType string, fields map[string]any, lineNo int, raw string) *Entry {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Entry{
		lineType: lineType,
		fields:   copied,
		lineNo:   lineNo,
		raw:      raw,
	}
}

// Type returns the line type tag assigned by the format definition.
func (e *Entry) Type() string { return e.lineType }

// LineNo returns the one-based source line number.
func (e *Entry) LineNo() int { return e.lineNo }

// Raw returns the original unparsed line.
func (e *Entry) Raw() string { return e.raw }

// Field returns the named field value and whether it is present.
func (e *Entry) Field(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Has reports whether the named field is present.
func (e *Entry) Has(name string) bool {
	_, ok := e.fields[name]
	return ok
}

// Fields returns a copy of the field map. Mutating the result does not
// affect the Entry.
func (e *Entry) Fields() map[string]any {
	copied := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		copied[k] = v
	}
	return copied
}

// FieldNames returns the field names in lexical order.
func (e *Entry) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (e *Entry) Len() int { return len(e.fields) }

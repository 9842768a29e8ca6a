// Package logline provides the Entry type: one parsed, typed log line.
//
// Entries are produced by a format-driven parser (pkg/parse) and consumed by
// the request correlator (pkg/correlate). An Entry carries the line type tag
// assigned by the matching format definition, the typed fields captured from
// the raw text, the one-based source line number, and the raw line itself.
//
// Entries are immutable once constructed. The constructor copies the field
// map, and field access goes through read-only accessors, so an Entry can be
// shared between a Request, trackers, and persistence sinks without copying.
//
// This is a leaf package with no internal dependencies, allowing it to be
// imported by any package without creating import cycles.
package logline

// Package reqlog provides the Request type: a correlated group of log line
// entries representing one logical transaction.
//
// A Request is assembled by the correlator (pkg/correlate) from one or more
// logline.Entry values sharing a correlation identity. It preserves arrival
// order and always holds at least one entry.
//
// # Field access
//
// Request field access is the union of all contained entries' fields. When
// two entries define the same field name, the later-arriving entry's value
// wins. Later lines amend earlier ones, which is how multi-line formats
// report a request's outcome on its final line.
//
// # Lifecycle
//
// A Request is open while the correlator may still attach entries. It
// completes exactly once, recording the cause: a terminal line type was
// observed, the input stream ended, or the correlator evicted it to bound
// memory. After completion it is read-only: Append
// returns ErrCompleted. Trackers and persistence sinks only ever see
// completed Requests.
package reqlog

// Package correlate groups parsed log line entries into completed requests.
//
// The Correlator maintains a working set of open requests keyed by a
// correlation identity. In keyed mode the identity is the value of a
// configured entry field; in sequential mode (no key field) every entry
// attaches to the most recently opened request, which is how single-writer
// multi-line logs interleave. A request completes when the format's terminal
// line type arrives, when the input stream ends (Flush), or when the
// correlator evicts it to bound memory.
//
// Completed requests are emitted downstream immediately and removed from the
// working set; no request is mutated after emission. Eviction emits too:
// inactivity never silently discards collected entries. Entries that can
// neither attach nor open a request are dropped with a diagnostic.
//
// The correlator runs in a single goroutine and holds no locks.
package correlate

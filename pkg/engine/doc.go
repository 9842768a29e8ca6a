// Package engine orchestrates one analysis run: expand input sources, parse
// lines, correlate them into requests, dispatch completed requests to the
// configured trackers and the optional persistence aggregator, then render
// and export the results.
//
// The pipeline is strictly single-pass and single-goroutine. Input lines are
// processed in arrival order, trackers and the correlator hold no locks, and
// the only I/O in the hot path is the boundary reads and the persistence
// writes the aggregator owns.
package engine

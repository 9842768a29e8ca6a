// Package tracker implements the pluggable aggregators that consume
// completed requests and maintain summary statistics.
//
// A Tracker validates its configuration once in Prepare, receives each
// dispatched request through Update, and renders its state through Report.
// The Registry owns the configured tracker instances for a run, applies each
// tracker's if/unless/line_type filters, and fans dispatched requests out.
//
// Categorizers and predicates are injected strategies. Configuration files
// supply them as expr-lang expressions evaluated against the request's
// merged fields; Go callers may inject plain functions instead. Expressions
// compile once at Prepare and any runtime error they raise aborts the run;
// a broken categorizer invalidates the whole aggregation.
package tracker

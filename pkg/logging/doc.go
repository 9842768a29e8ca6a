// Package logging provides structured logging configuration for reqsift.
//
// It wraps log/slog so every component logs consistently. Diagnostics from
// the analysis pipeline, such as skipped lines and evictions, go
// through loggers built here; report output never does.
//
// Components accept a *slog.Logger in their constructor. When diagnostics
// are unwanted, pass logging.Nop().
package logging

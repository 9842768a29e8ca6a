// Package report defines the sink contract between trackers and report
// output, plus the renderers that implement it.
//
// Trackers hand a sink semantic content only: an optional title, rows of
// already-formatted cell text with a ratio for bar rendering, and column
// directives (alignment, text or bar, fixed or remaining width). Everything
// visual (column sizing, bar glyphs, color) belongs to the renderer.
//
// Terminal renders to a writer with lipgloss-styled ratio bars. Recording
// captures the semantic calls verbatim, which is what tests compare.
package report

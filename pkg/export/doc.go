// Package export serializes a run's collected tracker state to structured
// text formats.
//
// A Snapshot bundles run metadata (run id, source, timing) with the
// exportable data of every tracker that collected anything. Marshalers
// register per format name; json, yaml, and xml ship built in, and the
// target format resolves from the output path's extension unless named
// explicitly.
package export

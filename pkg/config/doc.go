// Package config loads and validates reqsift run configuration.
//
// A configuration file names the input sources, the log format, optional
// correlation overrides, the trackers to run, and where reports, exports,
// and persisted requests go. YAML is the primary syntax; JSON and TOML load
// through the same entry point with the format detected from the file
// extension.
//
// Loading and validation are separate steps: Load only decodes, and
// Validate is called once before the run starts so every configuration
// mistake surfaces up front.
package config

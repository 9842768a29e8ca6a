// Package cli implements the reqsift command line interface.
//
// The root command carries the persistent logging and color flags; analyze
// runs the analysis pipeline over files or stdin, formats inspects the
// available log formats, init writes a starter configuration, and version
// prints build information.
package cli

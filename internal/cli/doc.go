// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It maps
// each faas3 subcommand onto an App operation and renders the result.
package cli

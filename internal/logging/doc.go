// Package logging provides the concrete implementations of the
// sqlgate.Logger interface.
//
// ConsoleLogger writes to stderr and is the default for the CLI.
// FileLogger appends timestamped lines to a file and backs the
// error log sink the data managers report failures to.
// NullLogger discards everything.
package logging

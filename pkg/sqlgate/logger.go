package sqlgate

// Logger provides a pluggable logging interface for sqlgate operations.
// Implementations must be safe for concurrent use by multiple goroutines.
//
// Loggers are injected by the process entry point; no package in this
// module configures a global logger.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}

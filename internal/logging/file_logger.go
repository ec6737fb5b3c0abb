package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// timestampLayout matches the log format the data layer has always used:
// "2006-01-02, 15:04:05 - name - LEVEL - message".
const timestampLayout = "2006-01-02, 15:04:05"

// FileLogger appends timestamped log lines to a file. It is the error log
// sink the data managers write connect and execution failures to; callers
// never consume it.
//
// By default only Error() produces output, matching an error-level sink.
// Verbose and Info lines are written only when verbose mode is enabled.
// Safe for concurrent use by multiple goroutines.
type FileLogger struct {
	name    string
	verbose bool
	mu      sync.Mutex
	file    *os.File

	// now is swapped by tests for deterministic timestamps.
	now func() time.Time
}

// NewFileLogger opens (or creates) the log file at path in append-only mode.
// name tags every line, typically the component that owns the sink.
// The caller owns the logger's lifecycle and must call Close().
func NewFileLogger(path, name string, verbose bool) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &FileLogger{
		name:    name,
		verbose: verbose,
		file:    f,
		now:     time.Now,
	}, nil
}

// Verbose logs detailed diagnostics when verbose mode is enabled.
func (l *FileLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("VERBOSE", format, args...)
}

// Info logs informational messages when verbose mode is enabled.
// An error-level sink stays quiet during normal operation.
func (l *FileLogger) Info(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("INFO", format, args...)
}

// Error logs error messages. Always written.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	fmt.Fprintf(l.file, "%s - %s - %s - %s\n", l.now().Format(timestampLayout), l.name, level, msg)
}

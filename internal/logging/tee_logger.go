package logging

import "github.com/avolkers/sqlgate/pkg/sqlgate"

// TeeLogger fans every message out to multiple loggers, letting an error
// line reach both the console and the file sink.
type TeeLogger struct {
	loggers []sqlgate.Logger
}

// NewTeeLogger creates a logger that forwards to all given loggers in order.
func NewTeeLogger(loggers ...sqlgate.Logger) *TeeLogger {
	return &TeeLogger{loggers: loggers}
}

// Verbose forwards to all loggers.
func (l *TeeLogger) Verbose(format string, args ...interface{}) {
	for _, lg := range l.loggers {
		lg.Verbose(format, args...)
	}
}

// Info forwards to all loggers.
func (l *TeeLogger) Info(format string, args ...interface{}) {
	for _, lg := range l.loggers {
		lg.Info(format, args...)
	}
}

// Error forwards to all loggers.
func (l *TeeLogger) Error(format string, args ...interface{}) {
	for _, lg := range l.loggers {
		lg.Error(format, args...)
	}
}

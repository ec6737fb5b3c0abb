package sqlgate

import "time"

// ErrorClassifier decides whether a failed connect attempt may be retried.
// Only connection-phase errors ever reach a classifier; statement execution
// failures are final.
type ErrorClassifier interface {
	// IsTransient reports whether err is temporary (server starting up,
	// network blip, too many connections) rather than fatal (bad
	// credentials, unknown database).
	IsTransient(err error) bool
}

// BackoffStrategy produces the wait between connect attempts.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt+1.
	// attempt is zero-indexed: 0 is the delay after the first failure.
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns how many retries follow the initial attempt
	// (0 = no retries, negative = unlimited).
	MaxAttempts() int
}

// Package retry provides the connection-retry gate: automatic retry with
// exponential backoff for transient connect failures.
//
// The package supports pluggable error classification and backoff strategies.
// Only connection establishment goes through the gate; statement execution
// on an established connection is never retried.
//
// # Example Usage
//
//	classifier := retry.NewMySQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(2) // two retries after the first attempt
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToDatabase(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface decides which errors are transient
// (retryable) versus fatal. MySQLErrorClassifier recognizes server overload
// and network failures; SQLiteErrorClassifier recognizes file lock
// contention. Authentication and SQL errors are always fatal.
//
// # Backoff
//
// ExponentialBackoff doubles the wait between attempts starting from a base
// delay (default 2s), capped at a maximum. Jitter is off by default so the
// wait progression is exact.
package retry

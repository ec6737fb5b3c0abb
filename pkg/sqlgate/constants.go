package sqlgate

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitExecutionFailed = 12 // Statement execution failed
	ExitBootstrapFailed = 13 // Schema bootstrap script failed
)

const (
	// DefaultRetryMaxAttempts is the total number of connect attempts the
	// retry gate makes before giving up, including the first one.
	DefaultRetryMaxAttempts = 3

	// DefaultRetryBaseDelay is the wait before the first reconnect attempt.
	// Successive waits double, so with the default base of 2 seconds the
	// waits are 2s, 4s, 8s, ...
	DefaultRetryBaseDelay = 2 * time.Second

	// DefaultRetryMaxDelay caps the wait between reconnect attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultMySQLPort is the standard MariaDB/MySQL server port.
	DefaultMySQLPort = 3306

	// DefaultConnectTimeout bounds a single connect attempt. The retry gate
	// bounds the overall loop via DefaultRetryMaxAttempts.
	DefaultConnectTimeout = 10 * time.Second

	// BootstrapTableThreshold is the table count below which a file-based
	// database is considered fresh and eligible for schema bootstrap.
	BootstrapTableThreshold = 2
)

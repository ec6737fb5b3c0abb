package sqlgate

import (
	"context"
	"database/sql"
)

// Connector is a unified interface for establishing database connections.
// Different implementations handle various backends and authentication
// methods (standard credentials, cloud IAM, embedded files).
//
// A connection handle's lifetime never exceeds a single manager operation:
// managers call Connect at the start of each operation and close the handle
// before returning.
type Connector interface {
	// Connect establishes a database handle, applying the connection-retry
	// gate. The returned handle must be closed by the caller when done.
	Connect(ctx context.Context) (*sql.DB, error)
}

package sqlgate

import "context"

// Reader is the read path of a data manager: execute a read-only statement,
// materialize all rows, close the connection.
type Reader interface {
	// Select executes a read-only statement and returns all rows in order.
	// On success the result is never nil, even when empty.
	Select(ctx context.Context, query string) ([]Row, error)
}

// Writer is the write path of a data manager. Plain, single-bind, and
// batched execution are separate operations so the call site picks the mode
// explicitly instead of dispatching on the shape of an argument.
type Writer interface {
	// Exec executes a statement as-is and returns the affected-row count.
	Exec(ctx context.Context, stmt string) (int64, error)

	// ExecOne executes a parameterized statement once.
	ExecOne(ctx context.Context, stmt string, params ...any) (int64, error)

	// ExecBatch executes a parameterized statement once per parameter set,
	// inside a single transaction. Returns the total affected-row count.
	ExecBatch(ctx context.Context, stmt string, paramSets [][]any) (int64, error)
}

// DataManager is the full operation surface shared by both backends.
// Every operation opens a fresh connection, runs one statement, commits or
// fetches, and closes the connection before returning.
type DataManager interface {
	Reader
	Writer
}

// ProcedureCaller is implemented by the networked backend only.
type ProcedureCaller interface {
	// CallProcedure invokes a stored procedure and returns all rows from all
	// result sets it produces.
	CallProcedure(ctx context.Context, name string, args ...any) ([]Row, error)
}

// SchemaInspector is implemented by the embedded backend only.
type SchemaInspector interface {
	// TableColumns returns the column descriptions of a table, one row per
	// column, via the database's internal catalog.
	TableColumns(ctx context.Context, table string) ([]Row, error)
}

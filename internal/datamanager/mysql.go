package datamanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkers/sqlgate/internal/db"
	"github.com/avolkers/sqlgate/internal/logging"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// MySQLManager implements the DataManager and ProcedureCaller interfaces for
// MariaDB/MySQL servers. Every operation opens a fresh connection through the
// retry gate, runs its statement, and closes the connection before returning;
// no connection outlives an operation.
type MySQLManager struct {
	config    *sqlgate.ConnectionConfig
	connector sqlgate.Connector
	logger    sqlgate.Logger
	id        string
}

// NewMySQLManager creates a manager for the server described by config.
// A nil logger disables logging.
func NewMySQLManager(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) (*MySQLManager, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	connector, err := db.NewConnector(config, logger)
	if err != nil {
		return nil, err
	}

	return &MySQLManager{
		config:    config,
		connector: connector,
		logger:    logger,
		id:        uuid.NewString(),
	}, nil
}

// Select executes a read-only statement and returns all rows in order.
// On success the result is never nil, even when empty.
func (m *MySQLManager) Select(ctx context.Context, query string) ([]sqlgate.Row, error) {
	_, rows, err := m.SelectWithColumns(ctx, query)
	return rows, err
}

// SelectWithColumns is Select plus the column names of the result set, for
// callers that render or export results.
func (m *MySQLManager) SelectWithColumns(ctx context.Context, query string) ([]string, []sqlgate.Row, error) {
	pool, err := m.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer pool.Close()

	rows, err := pool.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, m.execFailure("select", err)
	}
	defer rows.Close()

	columns, result, err := collectRowsWithColumns(rows)
	if err != nil {
		return nil, nil, m.execFailure("select", err)
	}

	m.logger.Verbose("[%s] select returned %d rows from %s", m.id, len(result), m.config.Database)
	return columns, result, nil
}

// Exec executes a statement as-is and returns the affected-row count.
func (m *MySQLManager) Exec(ctx context.Context, stmt string) (int64, error) {
	pool, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	res, err := pool.ExecContext(ctx, stmt)
	if err != nil {
		return 0, m.execFailure("exec", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, m.execFailure("exec", err)
	}
	return affected, nil
}

// ExecOne executes a parameterized statement once.
func (m *MySQLManager) ExecOne(ctx context.Context, stmt string, params ...any) (int64, error) {
	pool, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	res, err := pool.ExecContext(ctx, stmt, params...)
	if err != nil {
		return 0, m.execFailure("exec", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, m.execFailure("exec", err)
	}
	return affected, nil
}

// ExecBatch executes a parameterized statement once per parameter set inside
// a single transaction. A failure on any set rolls back the whole batch.
// Returns the total affected-row count.
func (m *MySQLManager) ExecBatch(ctx context.Context, stmt string, paramSets [][]any) (int64, error) {
	pool, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, m.execFailure("batch", err)
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return 0, m.execFailure("batch", err)
	}
	defer prepared.Close()

	var total int64
	for i, params := range paramSets {
		res, err := prepared.ExecContext(ctx, params...)
		if err != nil {
			return 0, m.execFailure(fmt.Sprintf("batch (set %d)", i), err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, m.execFailure(fmt.Sprintf("batch (set %d)", i), err)
		}
		total += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, m.execFailure("batch commit", err)
	}

	m.logger.Verbose("[%s] batch of %d statements affected %d rows", m.id, len(paramSets), total)
	return total, nil
}

// CallProcedure invokes a stored procedure and returns all rows from all
// result sets it produces. The result is never nil on success.
func (m *MySQLManager) CallProcedure(ctx context.Context, name string, args ...any) ([]sqlgate.Row, error) {
	if !isValidProcedureName(name) {
		return nil, fmt.Errorf("%w: invalid procedure name %q", sqlgate.ErrExecutionFailed, name)
	}

	pool, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	call := fmt.Sprintf("CALL `%s`(%s)", name, placeholders)

	rows, err := pool.QueryContext(ctx, call, args...)
	if err != nil {
		return nil, m.execFailure("call "+name, err)
	}
	defer rows.Close()

	result := make([]sqlgate.Row, 0, 16)
	for {
		batch, err := collectRows(rows)
		if err != nil {
			return nil, m.execFailure("call "+name, err)
		}
		result = append(result, batch...)
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, m.execFailure("call "+name, err)
	}

	m.logger.Verbose("[%s] procedure %s returned %d rows", m.id, name, len(result))
	return result, nil
}

// connect opens a fresh connection through the retry gate and logs the
// failure when the gate gives up.
func (m *MySQLManager) connect(ctx context.Context) (*sql.DB, error) {
	pool, err := m.connector.Connect(ctx)
	if err != nil {
		m.logger.Error("[%s] connection to %s failed: %v", m.id, m.config.Database, err)
		return nil, err
	}
	return pool, nil
}

// execFailure logs an execution failure and wraps it with the
// ErrExecutionFailed sentinel. Execution failures are never retried and are
// never converted to a zero-affected success.
func (m *MySQLManager) execFailure(op string, err error) error {
	m.logger.Error("[%s] %s failed on %s: %v", m.id, op, m.config.Database, err)
	return fmt.Errorf("%w: %w", sqlgate.ErrExecutionFailed, err)
}

// isValidProcedureName reports whether name is a plain identifier, keeping
// the CALL statement immune to injection through the procedure name.
func isValidProcedureName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '$':
		default:
			return false
		}
	}
	return true
}

var (
	_ sqlgate.DataManager     = (*MySQLManager)(nil)
	_ sqlgate.ProcedureCaller = (*MySQLManager)(nil)
)

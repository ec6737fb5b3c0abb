package datamanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkers/sqlgate/internal/db"
	"github.com/avolkers/sqlgate/internal/logging"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// tableColumnsQuery describes a table through the catalog, one row per
// column: cid, name, type, notnull, dflt_value, pk.
const tableColumnsQuery = `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`

// SQLiteManager implements the DataManager and SchemaInspector interfaces
// for embedded file databases. The connection lifecycle matches the
// networked manager: open, run one statement, close. A fresh database file
// is bootstrapped from the configured schema script on first connect.
type SQLiteManager struct {
	config    *sqlgate.SQLiteConfig
	connector sqlgate.Connector
	logger    sqlgate.Logger
	id        string
}

// NewSQLiteManager creates a manager for the database file described by
// config. A nil logger disables logging.
func NewSQLiteManager(config *sqlgate.SQLiteConfig, logger sqlgate.Logger) (*SQLiteManager, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SQLiteManager{
		config:    config,
		connector: db.NewSQLiteConnector(config, logger),
		logger:    logger,
		id:        uuid.NewString(),
	}, nil
}

// Select executes a read-only statement and returns all rows in order.
// On success the result is never nil, even when empty.
func (m *SQLiteManager) Select(ctx context.Context, query string) ([]sqlgate.Row, error) {
	_, rows, err := m.SelectWithColumns(ctx, query)
	return rows, err
}

// SelectWithColumns is Select plus the column names of the result set, for
// callers that render or export results.
func (m *SQLiteManager) SelectWithColumns(ctx context.Context, query string) ([]string, []sqlgate.Row, error) {
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

	m.logger.Verbose("[%s] select returned %d rows from %s", m.id, len(result), m.config.Path)
	return columns, result, nil
}

// Exec executes a statement as-is and returns the affected-row count.
func (m *SQLiteManager) Exec(ctx context.Context, stmt string) (int64, error) {
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
func (m *SQLiteManager) ExecOne(ctx context.Context, stmt string, params ...any) (int64, error) {
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
func (m *SQLiteManager) ExecBatch(ctx context.Context, stmt string, paramSets [][]any) (int64, error) {
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

// TableColumns returns the column descriptions of a table, one row per
// column, via pragma_table_info. An unknown table yields an empty, non-nil
// result rather than an error, matching the catalog's own behavior.
func (m *SQLiteManager) TableColumns(ctx context.Context, table string) ([]sqlgate.Row, error) {
	pool, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	rows, err := pool.QueryContext(ctx, tableColumnsQuery, table)
	if err != nil {
		return nil, m.execFailure("table columns", err)
	}
	defer rows.Close()

	result, err := collectRows(rows)
	if err != nil {
		return nil, m.execFailure("table columns", err)
	}
	return result, nil
}

// connect opens the database file through the retry gate, running the
// bootstrap check on the way, and logs the failure when the gate gives up.
func (m *SQLiteManager) connect(ctx context.Context) (*sql.DB, error) {
	pool, err := m.connector.Connect(ctx)
	if err != nil {
		m.logger.Error("[%s] connection to %s failed: %v", m.id, m.config.Path, err)
		return nil, err
	}
	return pool, nil
}

func (m *SQLiteManager) execFailure(op string, err error) error {
	m.logger.Error("[%s] %s failed on %s: %v", m.id, op, m.config.Path, err)
	return fmt.Errorf("%w: %w", sqlgate.ErrExecutionFailed, err)
}

var (
	_ sqlgate.DataManager     = (*SQLiteManager)(nil)
	_ sqlgate.SchemaInspector = (*SQLiteManager)(nil)
)

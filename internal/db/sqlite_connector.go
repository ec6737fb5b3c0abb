package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avolkers/sqlgate/internal/retry"
	"github.com/avolkers/sqlgate/internal/scripts"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// tableCountQuery counts user tables, ignoring SQLite's own bookkeeping
// tables (sqlite_sequence and friends).
const tableCountQuery = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`

// SQLiteConnector implements the Connector interface for the embedded
// file-based backend. Opening the database creates the file if missing;
// a fresh database (fewer than sqlgate.BootstrapTableThreshold tables) is
// bootstrapped from the configured schema script on first connect.
type SQLiteConnector struct {
	config        *sqlgate.SQLiteConfig
	retryExecutor *retry.Executor
	logger        sqlgate.Logger
}

// NewSQLiteConnector creates a connector for the database file in config.
// Lock contention ("database is locked") is retried through the same gate
// the networked backend uses for transient connect failures.
func NewSQLiteConnector(config *sqlgate.SQLiteConfig, logger sqlgate.Logger) *SQLiteConnector {
	classifier := retry.NewSQLiteErrorClassifier()
	strategy := retry.FromPolicy(config.Retry)

	executor := retry.NewExecutor(classifier, strategy)
	if logger != nil {
		executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			remaining := strategy.MaxAttempts() - attempt
			logger.Error("connection attempt %d failed (%d retries left), retrying in %v: %v",
				attempt+1, remaining, delay, err)
		})
	}

	return &SQLiteConnector{
		config:        config,
		retryExecutor: executor,
		logger:        logger,
	}
}

// Connect opens the database file, verifying the handle with a ping inside
// the retry gate, then runs the bootstrap check.
func (c *SQLiteConnector) Connect(ctx context.Context) (*sql.DB, error) {
	var pool *sql.DB

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = sql.Open("sqlite", c.config.Path)
		if err != nil {
			return fmt.Errorf("failed to open database file %s: %w", c.config.Path, err)
		}

		// The embedded backend serializes writers itself; a single
		// connection avoids busy errors between our own statements.
		pool.SetMaxOpenConns(1)

		if err := pool.PingContext(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to open database file %s: %w", c.config.Path, err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sqlgate.ErrConnectionFailed, err)
	}

	if err := c.bootstrap(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// bootstrap runs the schema script against a fresh database. A database
// already holding sqlgate.BootstrapTableThreshold or more tables is left
// untouched, so the script runs at most once per database file.
func (c *SQLiteConnector) bootstrap(ctx context.Context, pool *sql.DB) error {
	if c.config.BootstrapScript == "" {
		return nil
	}

	var tableCount int
	if err := pool.QueryRowContext(ctx, tableCountQuery).Scan(&tableCount); err != nil {
		return fmt.Errorf("%w: failed to inspect schema: %w", sqlgate.ErrBootstrapFailed, err)
	}
	if tableCount >= sqlgate.BootstrapTableThreshold {
		return nil
	}

	if c.logger != nil {
		c.logger.Info("bootstrapping fresh database %s (%d tables found)", c.config.Path, tableCount)
	}

	statements := scripts.SplitStatements(c.config.BootstrapScript)

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", sqlgate.ErrBootstrapFailed, err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: statement %q: %w", sqlgate.ErrBootstrapFailed, scripts.Abbreviate(stmt, 60), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %w", sqlgate.ErrBootstrapFailed, err)
	}

	return nil
}

var _ sqlgate.Connector = (*SQLiteConnector)(nil)

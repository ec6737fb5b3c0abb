package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/avolkers/sqlgate/internal/logging"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE sessions (
	id INTEGER PRIMARY KEY,
	user_id INTEGER REFERENCES users(id)
);
`

func countTables(t *testing.T, path string) int {
	t.Helper()

	connector := NewSQLiteConnector(&sqlgate.SQLiteConfig{Path: path}, logging.NewNullLogger())
	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	var n int
	if err := pool.QueryRow(tableCountQuery).Scan(&n); err != nil {
		t.Fatalf("table count query failed: %v", err)
	}
	return n
}

func TestSQLiteConnector_CreatesFileOnFirstConnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	connector := NewSQLiteConnector(&sqlgate.SQLiteConfig{Path: path}, logging.NewNullLogger())

	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(); err != nil {
		t.Errorf("Ping failed on fresh database: %v", err)
	}
}

func TestSQLiteConnector_BootstrapsFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	config := &sqlgate.SQLiteConfig{Path: path, BootstrapScript: testSchema}

	connector := NewSQLiteConnector(config, logging.NewNullLogger())
	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	pool.Close()

	if n := countTables(t, path); n != 2 {
		t.Errorf("Expected 2 tables after bootstrap, got %d", n)
	}
}

func TestSQLiteConnector_BootstrapRunsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	config := &sqlgate.SQLiteConfig{Path: path, BootstrapScript: testSchema}

	// First connect bootstraps, second must leave the schema alone.
	for i := 0; i < 2; i++ {
		connector := NewSQLiteConnector(config, logging.NewNullLogger())
		pool, err := connector.Connect(context.Background())
		if err != nil {
			t.Fatalf("Connect %d failed: %v", i, err)
		}
		if i == 0 {
			if _, err := pool.Exec(`INSERT INTO users (name) VALUES ('keep me')`); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
		}
		pool.Close()
	}

	connector := NewSQLiteConnector(config, logging.NewNullLogger())
	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	var n int
	if err := pool.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected existing row to survive reconnect, got %d rows", n)
	}
}

func TestSQLiteConnector_ExistingSchemaNotTouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	// Seed a database that already meets the table threshold.
	seed := NewSQLiteConnector(&sqlgate.SQLiteConfig{
		Path:            path,
		BootstrapScript: "CREATE TABLE a (x INT); CREATE TABLE b (y INT);",
	}, logging.NewNullLogger())
	pool, err := seed.Connect(context.Background())
	if err != nil {
		t.Fatalf("seed Connect failed: %v", err)
	}
	pool.Close()

	// Connecting with a different script must not run it.
	connector := NewSQLiteConnector(&sqlgate.SQLiteConfig{
		Path:            path,
		BootstrapScript: "CREATE TABLE c (z INT);",
	}, logging.NewNullLogger())
	pool, err = connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	pool.Close()

	if n := countTables(t, path); n != 2 {
		t.Errorf("Expected schema untouched (2 tables), got %d", n)
	}
}

func TestSQLiteConnector_BootstrapFailureRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	config := &sqlgate.SQLiteConfig{
		Path:            path,
		BootstrapScript: "CREATE TABLE good (x INT); CREATE BROKEN SYNTAX;",
	}

	connector := NewSQLiteConnector(config, logging.NewNullLogger())
	_, err := connector.Connect(context.Background())
	if !errors.Is(err, sqlgate.ErrBootstrapFailed) {
		t.Fatalf("Expected ErrBootstrapFailed, got %v", err)
	}

	// Nothing from the failed script should be visible.
	if n := countTables(t, path); n != 0 {
		t.Errorf("Expected rollback to leave 0 tables, got %d", n)
	}
}

func TestSQLiteConnector_NoScriptNoBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	connector := NewSQLiteConnector(&sqlgate.SQLiteConfig{Path: path}, logging.NewNullLogger())

	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	pool.Close()

	if n := countTables(t, path); n != 0 {
		t.Errorf("Expected empty database, got %d tables", n)
	}
}

package datamanager

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/avolkers/sqlgate/internal/logging"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// staticConnector hands out a pre-built handle, bypassing the retry gate.
type staticConnector struct {
	db  *sql.DB
	err error
}

func (c staticConnector) Connect(ctx context.Context) (*sql.DB, error) {
	return c.db, c.err
}

func newMockManager(t *testing.T) (*MySQLManager, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}

	manager := &MySQLManager{
		config:    &sqlgate.ConnectionConfig{Host: "localhost", Database: "testdb", Username: "u"},
		connector: staticConnector{db: mockDB},
		logger:    logging.NewNullLogger(),
		id:        uuid.NewString(),
	}
	return manager, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestNewMySQLManager_ValidatesConfig(t *testing.T) {
	_, err := NewMySQLManager(&sqlgate.ConnectionConfig{}, nil)
	if !errors.Is(err, sqlgate.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestMySQLManager_Select(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title FROM movies")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(int64(1), "Alien").
			AddRow(int64(2), "Solaris"))
	mock.ExpectClose()

	rows, err := manager.Select(context.Background(), "SELECT id, title FROM movies")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Alien" || rows[1][1] != "Solaris" {
		t.Errorf("Rows out of order or mangled: %v", rows)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_Select_EmptyResultIsNotNil(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM movies")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectClose()

	rows, err := manager.Select(context.Background(), "SELECT id FROM movies")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if rows == nil {
		t.Fatal("Empty result must be non-nil")
	}
	if len(rows) != 0 {
		t.Errorf("Expected 0 rows, got %d", len(rows))
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_Select_ExecutionError(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nope")).
		WillReturnError(errors.New("Error 1064: syntax error"))
	mock.ExpectClose()

	_, err := manager.Select(context.Background(), "SELECT nope")
	if !errors.Is(err, sqlgate.ErrExecutionFailed) {
		t.Errorf("Expected ErrExecutionFailed, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_Select_ConnectionFailurePropagates(t *testing.T) {
	connErr := sqlgate.ErrConnectionFailed
	manager := &MySQLManager{
		config:    &sqlgate.ConnectionConfig{Host: "localhost", Database: "testdb"},
		connector: staticConnector{err: connErr},
		logger:    logging.NewNullLogger(),
		id:        uuid.NewString(),
	}

	_, err := manager.Select(context.Background(), "SELECT 1")
	if !errors.Is(err, sqlgate.ErrConnectionFailed) {
		t.Errorf("Expected ErrConnectionFailed, got %v", err)
	}
}

func TestMySQLManager_Exec(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies")).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectClose()

	affected, err := manager.Exec(context.Background(), "DELETE FROM movies")
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if affected != 7 {
		t.Errorf("Expected 7 affected rows, got %d", affected)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_ExecOne(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies (title) VALUES (?)")).
		WithArgs("Stalker").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectClose()

	affected, err := manager.ExecOne(context.Background(), "INSERT INTO movies (title) VALUES (?)", "Stalker")
	if err != nil {
		t.Fatalf("ExecOne failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 affected row, got %d", affected)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_ExecOne_FailureIsNeverZeroAffectedSuccess(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies (title) VALUES (?)")).
		WithArgs("Stalker").
		WillReturnError(errors.New("Error 1062: duplicate entry"))
	mock.ExpectClose()

	_, err := manager.ExecOne(context.Background(), "INSERT INTO movies (title) VALUES (?)", "Stalker")
	if !errors.Is(err, sqlgate.ErrExecutionFailed) {
		t.Fatalf("Expected ErrExecutionFailed, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_ExecBatch(t *testing.T) {
	manager, mock := newMockManager(t)

	stmt := "INSERT INTO movies (title) VALUES (?)"
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(stmt))
	prep.ExpectExec().WithArgs("Alien").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("Solaris").WillReturnResult(sqlmock.NewResult(2, 1))
	prep.ExpectExec().WithArgs("Stalker").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	total, err := manager.ExecBatch(context.Background(), stmt, [][]any{
		{"Alien"}, {"Solaris"}, {"Stalker"},
	})
	if err != nil {
		t.Fatalf("ExecBatch failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3 affected rows, got %d", total)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_ExecBatch_RollsBackOnFailure(t *testing.T) {
	manager, mock := newMockManager(t)

	stmt := "INSERT INTO movies (title) VALUES (?)"
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(stmt))
	prep.ExpectExec().WithArgs("Alien").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("Solaris").WillReturnError(errors.New("Error 1062: duplicate entry"))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := manager.ExecBatch(context.Background(), stmt, [][]any{
		{"Alien"}, {"Solaris"},
	})
	if !errors.Is(err, sqlgate.ErrExecutionFailed) {
		t.Fatalf("Expected ErrExecutionFailed, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_CallProcedure(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("CALL `top_movies`(?)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).
			AddRow("Alien").
			AddRow("Solaris"))
	mock.ExpectClose()

	rows, err := manager.CallProcedure(context.Background(), "top_movies", int64(2))
	if err != nil {
		t.Fatalf("CallProcedure failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
	expectationsMet(t, mock)
}

func TestMySQLManager_CallProcedure_RejectsUnsafeName(t *testing.T) {
	manager, _ := newMockManager(t)

	for _, name := range []string{"", "p; DROP TABLE movies", "bad`name", "with space"} {
		_, err := manager.CallProcedure(context.Background(), name)
		if !errors.Is(err, sqlgate.ErrExecutionFailed) {
			t.Errorf("Expected ErrExecutionFailed for name %q, got %v", name, err)
		}
	}
}

package retry

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
)

// MySQL/MariaDB server error numbers for transient conditions.
// See: https://mariadb.com/kb/en/mariadb-error-codes/
const (
	myCodeConCountError       = 1040 // too many connections
	myCodeServerShutdown      = 1053 // server shutdown in progress
	myCodeAbortingConnection  = 1152
	myCodeNewAbortingConn     = 1184
	myCodeLockWaitTimeout     = 1205
	myCodeLockDeadlock        = 1213
	myCodeUserLimitReached    = 1226 // max_user_connections exceeded
	myCodeTooManyUserConns    = 1203
)

// MySQLErrorClassifier implements ErrorClassifier for the networked backend.
// Only errors that indicate the server is temporarily unreachable or
// overloaded are transient; authentication and SQL errors are fatal.
type MySQLErrorClassifier struct{}

// NewMySQLErrorClassifier creates a new MySQL/MariaDB error classifier.
func NewMySQLErrorClassifier() *MySQLErrorClassifier {
	return &MySQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *MySQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Server-side errors carry a MariaDB/MySQL error number.
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return isTransientMySQLNumber(myErr.Number)
	}

	// The driver signals dead client-side connections with sentinels.
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	return hasTransientConnectPattern(err)
}

func isTransientMySQLNumber(number uint16) bool {
	switch number {
	case myCodeConCountError,
		myCodeServerShutdown,
		myCodeAbortingConnection,
		myCodeNewAbortingConn,
		myCodeLockWaitTimeout,
		myCodeLockDeadlock,
		myCodeTooManyUserConns,
		myCodeUserLimitReached:
		return true
	}
	return false
}

// SQLiteErrorClassifier implements ErrorClassifier for the embedded backend.
// A file database has no network to fail; the only transient conditions are
// lock contention on the database file.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier creates a new SQLite error classifier.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *SQLiteErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	lockPatterns := []string{
		"database is locked",  // SQLITE_BUSY
		"database table is locked", // SQLITE_LOCKED
		"locking protocol",
	}
	for _, pattern := range lockPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}

// isNetworkError checks for network-level errors.
func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
				errors.Is(opErr.Err, syscall.ECONNRESET) ||
				errors.Is(opErr.Err, syscall.ENETUNREACH) ||
				errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// hasTransientConnectPattern matches common connection failure messages that
// reach us as plain errors (wrapped driver or dialer output).
func hasTransientConnectPattern(err error) bool {
	msg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"too many connections",
		"server shutdown",
		"invalid connection",
		"bad connection",
		"unexpected eof",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avolkers/sqlgate/internal/retry"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// Connection pool configuration constants
const (
	// DefaultMaxOpenConns limits concurrent connections. Every operation
	// opens and closes its own connection, so the pool stays small.
	DefaultMaxOpenConns = 5

	// DefaultMaxIdleConns keeps at most one idle connection around between
	// statements of the same operation.
	DefaultMaxIdleConns = 1

	// DefaultConnMaxLifetime bounds connection age so long-lived processes
	// do not hold on to connections the server has already timed out.
	DefaultConnMaxLifetime = 30 * time.Minute
)

func configurePool(pool *sql.DB) {
	pool.SetMaxOpenConns(DefaultMaxOpenConns)
	pool.SetMaxIdleConns(DefaultMaxIdleConns)
	pool.SetConnMaxLifetime(DefaultConnMaxLifetime)
}

// StandardConnector implements the Connector interface for standard
// username/password authentication with automatic retry on transient failures.
type StandardConnector struct {
	config        *sqlgate.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given
// configuration. Retry behavior follows config.Retry, with sqlgate defaults
// for zero fields: DefaultRetryMaxAttempts attempts, exponential backoff
// starting at DefaultRetryBaseDelay, capped at DefaultRetryMaxDelay.
func NewStandardConnector(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		retryExecutor: newConnectExecutor(config.Retry, logger),
	}
}

// newConnectExecutor wires the MySQL error classifier, the configured backoff
// and a logging callback into a connect-retry gate.
func newConnectExecutor(policy sqlgate.RetryPolicy, logger sqlgate.Logger) *retry.Executor {
	classifier := retry.NewMySQLErrorClassifier()
	strategy := retry.FromPolicy(policy)

	executor := retry.NewExecutor(classifier, strategy)
	if logger != nil {
		executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			remaining := strategy.MaxAttempts() - attempt
			logger.Error("connection attempt %d failed (%d retries left), retrying in %v: %v",
				attempt+1, remaining, delay, err)
		})
	}
	return executor
}

// Connect opens a database handle using standard authentication, verifying it
// with a ping inside the retry gate.
func (c *StandardConnector) Connect(ctx context.Context) (*sql.DB, error) {
	var pool *sql.DB
	dsn := BuildMySQLDSN(c.config)

	// Use retry executor to handle transient connection failures
	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = sql.Open("mysql", dsn)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		configurePool(pool)

		// sql.Open is lazy; ping to surface connection failures now.
		if err := pool.PingContext(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", sqlgate.ErrConnectionFailed, err)
	}

	return pool, nil
}

var _ sqlgate.Connector = (*StandardConnector)(nil)

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) (sqlgate.Connector, error) {
	switch config.AuthMethod {
	case sqlgate.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case sqlgate.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case sqlgate.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case sqlgate.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, sqlgate.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - MySQL/MariaDB is not running (check: mysqladmin -h %s -P %d ping)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, host, err)

	case strings.Contains(errStr, "access denied"):
		return fmt.Errorf(`access denied for database "%s"

Possible causes:
  - Wrong password (check $MYSQL_PWD or sqlgate.yaml)
  - Wrong username
  - User does not have access from this host

Original error: %w`, database, err)

	case strings.Contains(errStr, "unknown database"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  CREATE DATABASE %s;

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires TLS but --tls is wrong
  - Certificate verification failed (try --tls=skip-verify)
  - Server does not support TLS (try --tls=preferred)

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - max_connections limit reached on the server
  - Stale connections from previous runs

Try: SHOW PROCESSLIST; and KILL the stale ones.

Original error: %w`, database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) (sqlgate.Connector, error) {
	port := config.Port
	if port == 0 {
		port = sqlgate.DefaultMySQLPort
	}
	endpoint := fmt.Sprintf("%s:%d", config.Host, port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) (sqlgate.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires an instance connection name (project:region:instance)")
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username")
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If explicit credentials (tenant, client, secret) are provided, uses Service Principal auth.
// Otherwise, falls back to DefaultAzureCredential chain.
func newAzureConnector(config *sqlgate.ConnectionConfig, logger sqlgate.Logger) (sqlgate.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}

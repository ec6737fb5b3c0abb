package sqlgate

import (
	"errors"
	"fmt"
	"time"
)

// Row is one result row: an ordered sequence of column values with no typing
// beyond what the driver returned.
type Row []any

// AuthMethod represents the type of authentication to use for the networked
// backend.
type AuthMethod int

const (
	AuthMethodStandard AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                     // AWS IAM database authentication (RDS/Aurora MySQL)
	AuthMethodGoogleIAM                  // Google Cloud SQL for MySQL IAM
	AuthMethodAzureEntraID               // Azure Database for MySQL (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// RetryPolicy configures the connection-retry gate.
// The zero value means "use defaults".
type RetryPolicy struct {
	// MaxAttempts is the total number of connect attempts, including the
	// first. Values < 1 fall back to DefaultRetryMaxAttempts.
	MaxAttempts int

	// BaseDelay is the wait before the first reconnect attempt. Successive
	// waits double. Zero falls back to DefaultRetryBaseDelay.
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts. Zero falls back to
	// DefaultRetryMaxDelay.
	MaxDelay time.Duration
}

// Normalize returns a copy with defaults applied to zero fields.
func (p RetryPolicy) Normalize() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultRetryMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultRetryMaxDelay
	}
	return p
}

// ConnectionConfig holds the connection parameters for the networked
// MariaDB/MySQL backend. Immutable once handed to a manager; the manager
// owns its copy exclusively.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// ConnectTimeout bounds a single connect attempt (not the retry loop).
	ConnectTimeout time.Duration

	// TLSConfig is passed through to the driver ("true", "skip-verify",
	// "preferred" or a registered config name). Empty means driver default.
	TLSConfig string

	// Params are additional driver DSN parameters (charset, collation, ...).
	Params map[string]string

	// Retry configures the connection-retry gate.
	Retry RetryPolicy

	// AWS IAM authentication parameters (AuthMethodAWSIAM).
	AWSRegion string

	// Google Cloud SQL instance connection name, project:region:instance
	// (AuthMethodGoogleIAM).
	GoogleInstance string

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the ConnectionConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("host is required: %w", ErrInvalidConfig))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range: %w", c.Port, ErrInvalidConfig))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database is required: %w", ErrInvalidConfig))
	}
	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	}
	if c.AuthMethod == AuthMethodAWSIAM && c.AWSRegion == "" {
		errs = append(errs, fmt.Errorf("AWS IAM auth requires a region: %w", ErrInvalidConfig))
	}
	if c.AuthMethod == AuthMethodGoogleIAM && c.GoogleInstance == "" {
		errs = append(errs, fmt.Errorf("Google IAM auth requires an instance connection name: %w", ErrInvalidConfig))
	}
	if c.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("connect timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// SQLiteConfig holds the parameters for the embedded file-based backend:
// a database path plus an optional schema bootstrap script.
type SQLiteConfig struct {
	// Path is the database file path. SQLite creates the file on first
	// connect if it does not exist.
	Path string

	// BootstrapScript is an optional sequence of SQL statements executed
	// once against a fresh database (fewer than BootstrapTableThreshold
	// tables). Empty means no bootstrap.
	BootstrapScript string

	// Retry configures the connection-retry gate.
	Retry RetryPolicy
}

// Validate checks if the SQLiteConfig has all required fields.
func (c *SQLiteConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path is required: %w", ErrInvalidConfig)
	}
	return nil
}

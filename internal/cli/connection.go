package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/config"
	"github.com/avolkers/sqlgate/internal/datamanager"
	"github.com/avolkers/sqlgate/internal/logging"
	"github.com/avolkers/sqlgate/internal/scripts"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// connectionFlags carries every backend-selection flag a data command takes.
type connectionFlags struct {
	host     string
	port     int
	database string
	username string

	tls        string
	authMethod string

	awsRegion         string
	googleInstance    string
	azureTenantID     string
	azureClientID     string
	azureClientSecret string

	dsnParams []string

	sqlitePath      string
	bootstrapScript string

	retryAttempts  int
	retryBaseDelay time.Duration
}

// addConnectionFlags registers the shared backend-selection flags on cmd.
func addConnectionFlags(cmd *cobra.Command, flags *connectionFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.host, "host", "", "MariaDB/MySQL server host")
	f.IntVar(&flags.port, "port", 0, "Server port (default 3306)")
	f.StringVarP(&flags.database, "database", "d", "", "Database name")
	f.StringVarP(&flags.username, "user", "U", "", "Database user")
	f.StringVar(&flags.tls, "tls", "", "TLS mode (true, skip-verify, preferred)")
	f.StringVar(&flags.authMethod, "auth", "", "Authentication method: standard, aws-iam, google-iam, azure")
	f.StringVar(&flags.awsRegion, "aws-region", "", "AWS region for RDS IAM authentication")
	f.StringVar(&flags.googleInstance, "google-instance", "", "Cloud SQL instance (project:region:instance)")
	f.StringVar(&flags.azureTenantID, "azure-tenant-id", "", "Azure tenant ID for Entra ID authentication")
	f.StringVar(&flags.azureClientID, "azure-client-id", "", "Azure client ID for Entra ID authentication")
	f.StringVar(&flags.azureClientSecret, "azure-client-secret", "", "Azure client secret for Entra ID authentication")
	f.StringArrayVar(&flags.dsnParams, "dsn-param", nil, "Extra driver DSN parameter as KEY=VALUE (repeatable)")
	f.StringVar(&flags.sqlitePath, "sqlite", "", "Use the embedded backend with this database file")
	f.StringVar(&flags.bootstrapScript, "bootstrap", "", "SQL script to bootstrap a fresh embedded database")
	f.IntVar(&flags.retryAttempts, "retry-attempts", 0, "Total connect attempts (default 3)")
	f.DurationVar(&flags.retryBaseDelay, "retry-base-delay", 0, "Wait before the first reconnect attempt (default 2s)")
}

// parseAuthMethod maps the --auth flag to an AuthMethod.
func parseAuthMethod(s string) (sqlgate.AuthMethod, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return sqlgate.AuthMethodStandard, nil
	case "aws-iam":
		return sqlgate.AuthMethodAWSIAM, nil
	case "google-iam":
		return sqlgate.AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return sqlgate.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("auth method %q: %w", s, sqlgate.ErrUnsupportedAuthMethod)
	}
}

// parseDSNParams parses repeated KEY=VALUE pairs into a map.
func parseDSNParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid argument %q for --dsn-param: expected KEY=VALUE", pair)
		}
		params[key] = value
	}
	return params, nil
}

// session is the resolved runtime of a data command: exactly one backend
// manager plus the logger wiring. Close releases the file log sink.
type session struct {
	mysql  *datamanager.MySQLManager
	sqlite *datamanager.SQLiteManager
	logger sqlgate.Logger
	close  func()
}

// reader is the query surface both managers share.
type reader interface {
	SelectWithColumns(ctx context.Context, query string) ([]string, []sqlgate.Row, error)
}

func (s *session) reader() reader {
	if s.sqlite != nil {
		return s.sqlite
	}
	return s.mysql
}

func (s *session) writer() sqlgate.Writer {
	if s.sqlite != nil {
		return s.sqlite
	}
	return s.mysql
}

// newSession resolves configuration with flags > environment > project file
// precedence and builds the selected backend's manager.
func newSession(cmd *cobra.Command, flags *connectionFlags) (*session, error) {
	if err := config.LoadDotEnv("."); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	projectConfig, err := config.Load(".")
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %v", sqlgate.ErrInvalidConfig, err)
		}
		projectConfig = &config.ProjectConfig{}
	}
	config.ApplyEnv(projectConfig)

	verbose := getVerboseFlag(cmd)
	logger, closeLogs, err := buildLogger(cmd, projectConfig, verbose)
	if err != nil {
		return nil, err
	}

	s := &session{logger: logger, close: closeLogs}

	sqlitePath := flags.sqlitePath
	useEmbedded := sqlitePath != ""
	if !useEmbedded && flags.host == "" && projectConfig.Connection.Host == "" && projectConfig.SQLite.Path != "" {
		sqlitePath = projectConfig.SQLite.Path
		useEmbedded = true
	}

	retry, err := resolveRetryPolicy(flags, projectConfig)
	if err != nil {
		closeLogs()
		return nil, err
	}

	if useEmbedded {
		sqliteConfig, err := buildSQLiteConfig(sqlitePath, flags, projectConfig, retry)
		if err != nil {
			closeLogs()
			return nil, err
		}
		s.sqlite, err = datamanager.NewSQLiteManager(sqliteConfig, logger)
		if err != nil {
			closeLogs()
			return nil, err
		}
		return s, nil
	}

	connConfig, err := buildConnectionConfig(flags, projectConfig, retry)
	if err != nil {
		closeLogs()
		return nil, err
	}
	s.mysql, err = datamanager.NewMySQLManager(connConfig, logger)
	if err != nil {
		closeLogs()
		return nil, err
	}
	return s, nil
}

// buildLogger assembles the console logger plus the optional file sink.
func buildLogger(cmd *cobra.Command, projectConfig *config.ProjectConfig, verbose bool) (sqlgate.Logger, func(), error) {
	console := logging.NewConsoleLogger(verbose)

	logPath, err := cmd.Flags().GetString("log-file")
	if err != nil {
		logPath = ""
	}
	if logPath == "" {
		logPath = projectConfig.LogFile
	}
	if logPath == "" {
		return console, func() {}, nil
	}

	fileLogger, err := logging.NewFileLogger(logPath, "sqlgate", verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sqlgate.ErrInvalidConfig, err)
	}
	return logging.NewTeeLogger(console, fileLogger), func() { fileLogger.Close() }, nil
}

// resolveRetryPolicy merges retry settings from flags and the project file.
func resolveRetryPolicy(flags *connectionFlags, projectConfig *config.ProjectConfig) (sqlgate.RetryPolicy, error) {
	policy := sqlgate.RetryPolicy{
		MaxAttempts: projectConfig.Retry.MaxAttempts,
	}
	if projectConfig.Retry.BaseDelay != "" {
		d, err := time.ParseDuration(projectConfig.Retry.BaseDelay)
		if err != nil {
			return policy, fmt.Errorf("%w: retry.base_delay: %v", sqlgate.ErrInvalidConfig, err)
		}
		policy.BaseDelay = d
	}
	if projectConfig.Retry.MaxDelay != "" {
		d, err := time.ParseDuration(projectConfig.Retry.MaxDelay)
		if err != nil {
			return policy, fmt.Errorf("%w: retry.max_delay: %v", sqlgate.ErrInvalidConfig, err)
		}
		policy.MaxDelay = d
	}
	if flags.retryAttempts > 0 {
		policy.MaxAttempts = flags.retryAttempts
	}
	if flags.retryBaseDelay > 0 {
		policy.BaseDelay = flags.retryBaseDelay
	}
	return policy, nil
}

// buildConnectionConfig merges networked-backend settings with flags winning
// over the project file.
func buildConnectionConfig(flags *connectionFlags, projectConfig *config.ProjectConfig, retry sqlgate.RetryPolicy) (*sqlgate.ConnectionConfig, error) {
	conn := projectConfig.Connection

	pick := func(flag, file string) string {
		if flag != "" {
			return flag
		}
		return file
	}

	authName := pick(flags.authMethod, conn.AuthMethod)
	authMethod, err := parseAuthMethod(authName)
	if err != nil {
		return nil, err
	}

	params, err := parseDSNParams(flags.dsnParams)
	if err != nil {
		return nil, err
	}
	for k, v := range projectConfig.Params {
		if params == nil {
			params = make(map[string]string)
		}
		if _, set := params[k]; !set {
			params[k] = v
		}
	}

	port := flags.port
	if port == 0 {
		port = conn.Port
	}

	cfg := &sqlgate.ConnectionConfig{
		Host:              pick(flags.host, conn.Host),
		Port:              port,
		Database:          pick(flags.database, conn.Database),
		Username:          pick(flags.username, conn.Username),
		Password:          config.Password(),
		AuthMethod:        authMethod,
		TLSConfig:         pick(flags.tls, conn.TLS),
		Params:            params,
		Retry:             retry,
		AWSRegion:         pick(flags.awsRegion, conn.AWSRegion),
		GoogleInstance:    pick(flags.googleInstance, conn.GoogleInstance),
		AzureTenantID:     pick(flags.azureTenantID, conn.AzureTenantID),
		AzureClientID:     pick(flags.azureClientID, conn.AzureClientID),
		AzureClientSecret: flags.azureClientSecret,
	}

	if projectConfig.Timeout != "" {
		d, err := time.ParseDuration(projectConfig.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %v", sqlgate.ErrInvalidConfig, err)
		}
		cfg.ConnectTimeout = d
	}

	return cfg, nil
}

// buildSQLiteConfig merges embedded-backend settings and loads the bootstrap
// script when one was configured.
func buildSQLiteConfig(path string, flags *connectionFlags, projectConfig *config.ProjectConfig, retry sqlgate.RetryPolicy) (*sqlgate.SQLiteConfig, error) {
	scriptPath := flags.bootstrapScript
	if scriptPath == "" {
		scriptPath = projectConfig.SQLite.BootstrapScript
	}

	cfg := &sqlgate.SQLiteConfig{Path: path, Retry: retry}
	if scriptPath != "" {
		script, err := scripts.Load(scriptPath)
		if err != nil {
			return nil, err
		}
		cfg.BootstrapScript = script
	}
	return cfg, nil
}

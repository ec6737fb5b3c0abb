package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names recognized across commands. Values set in the
// process environment win over a .env file but lose to explicit flags.
const (
	EnvHost       = "SQLGATE_HOST"
	EnvPort       = "SQLGATE_PORT"
	EnvDatabase   = "SQLGATE_DATABASE"
	EnvUsername   = "SQLGATE_USER"
	EnvPassword   = "SQLGATE_PASSWORD"
	EnvSQLitePath = "SQLGATE_SQLITE_PATH"
	EnvLogFile    = "SQLGATE_LOG_FILE"

	// EnvMySQLPwd is the conventional MySQL client password variable,
	// honored as a fallback to EnvPassword.
	EnvMySQLPwd = "MYSQL_PWD"
)

// LoadDotEnv loads a .env file from dir into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Password resolves the connection password from the environment.
func Password() string {
	if pwd := os.Getenv(EnvPassword); pwd != "" {
		return pwd
	}
	return os.Getenv(EnvMySQLPwd)
}

// ApplyEnv fills empty ProjectConfig fields from the environment, keeping
// the flags > env > file precedence: the caller applies flags afterwards.
func ApplyEnv(cfg *ProjectConfig) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Connection.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Connection.Port = port
		}
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Connection.Database = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Connection.Username = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
}

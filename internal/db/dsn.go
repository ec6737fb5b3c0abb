package db

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// BuildMySQLDSN builds a go-sql-driver DSN from a ConnectionConfig.
// Uses the driver's own Config type so quoting and parameter encoding
// stay correct for every value.
func BuildMySQLDSN(config *sqlgate.ConnectionConfig) string {
	return buildDriverConfig(config).FormatDSN()
}

func buildDriverConfig(config *sqlgate.ConnectionConfig) *mysql.Config {
	port := config.Port
	if port == 0 {
		port = sqlgate.DefaultMySQLPort
	}
	timeout := config.ConnectTimeout
	if timeout == 0 {
		timeout = sqlgate.DefaultConnectTimeout
	}

	cfg := mysql.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", config.Host, port)
	cfg.DBName = config.Database
	cfg.Timeout = timeout
	cfg.ParseTime = true
	cfg.AllowNativePasswords = true
	cfg.MultiStatements = false

	if config.TLSConfig != "" {
		cfg.TLSConfig = config.TLSConfig
	}

	for k, v := range config.Params {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string, len(config.Params))
		}
		cfg.Params[k] = v
	}

	return cfg
}

package db

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

func TestBuildMySQLDSN_Basic(t *testing.T) {
	config := &sqlgate.ConnectionConfig{
		Host:     "db.example.com",
		Port:     3307,
		Database: "appdb",
		Username: "appuser",
		Password: "s3cret",
	}

	dsn := BuildMySQLDSN(config)

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if parsed.Addr != "db.example.com:3307" {
		t.Errorf("Addr = %q, want %q", parsed.Addr, "db.example.com:3307")
	}
	if parsed.Net != "tcp" {
		t.Errorf("Net = %q, want tcp", parsed.Net)
	}
	if parsed.User != "appuser" || parsed.Passwd != "s3cret" {
		t.Errorf("credentials not carried: user=%q passwd=%q", parsed.User, parsed.Passwd)
	}
	if parsed.DBName != "appdb" {
		t.Errorf("DBName = %q, want appdb", parsed.DBName)
	}
	if !parsed.ParseTime {
		t.Error("ParseTime should be enabled")
	}
	if parsed.MultiStatements {
		t.Error("MultiStatements should stay disabled")
	}
}

func TestBuildMySQLDSN_Defaults(t *testing.T) {
	config := &sqlgate.ConnectionConfig{
		Host:     "localhost",
		Database: "appdb",
		Username: "root",
	}

	parsed, err := mysql.ParseDSN(BuildMySQLDSN(config))
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if parsed.Addr != "localhost:3306" {
		t.Errorf("Addr = %q, want default port 3306", parsed.Addr)
	}
	if parsed.Timeout != sqlgate.DefaultConnectTimeout {
		t.Errorf("Timeout = %v, want %v", parsed.Timeout, sqlgate.DefaultConnectTimeout)
	}
}

func TestBuildMySQLDSN_TimeoutAndTLS(t *testing.T) {
	config := &sqlgate.ConnectionConfig{
		Host:           "localhost",
		Port:           3306,
		Database:       "appdb",
		Username:       "root",
		ConnectTimeout: 3 * time.Second,
		TLSConfig:      "skip-verify",
	}

	parsed, err := mysql.ParseDSN(BuildMySQLDSN(config))
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if parsed.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", parsed.Timeout)
	}
	if parsed.TLSConfig != "skip-verify" {
		t.Errorf("TLSConfig = %q, want skip-verify", parsed.TLSConfig)
	}
}

func TestBuildMySQLDSN_ExtraParams(t *testing.T) {
	config := &sqlgate.ConnectionConfig{
		Host:     "localhost",
		Port:     3306,
		Database: "appdb",
		Username: "root",
		Params: map[string]string{
			"charset":   "utf8mb4",
			"collation": "utf8mb4_unicode_ci",
		},
	}

	parsed, err := mysql.ParseDSN(BuildMySQLDSN(config))
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if parsed.Params["charset"] != "utf8mb4" {
		t.Errorf("charset param = %q, want utf8mb4", parsed.Params["charset"])
	}
	if parsed.Collation != "utf8mb4_unicode_ci" {
		t.Errorf("Collation = %q, want utf8mb4_unicode_ci", parsed.Collation)
	}
}

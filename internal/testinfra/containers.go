package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MySQLImage    = "mysql:8.4"
	MySQLUser     = "sqlgate"
	MySQLPassword = "sqlgate"
	MySQLDB       = "sqlgate_test"
)

type MySQLContainer struct {
	*mysql.MySQLContainer
	ConnString string
	Host       string
	Port       int
}

// StartMySQL starts a disposable MySQL server for integration tests.
// The caller owns the container and must Terminate it.
func StartMySQL(ctx context.Context) (*MySQLContainer, error) {
	ctr, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithUsername(MySQLUser),
		mysql.WithPassword(MySQLPassword),
		mysql.WithDatabase(MySQLDB),
		testcontainers.WithWaitStrategy(
			// mysqld logs the ready line once for the init server and once
			// for the real one.
			wait.ForLog("ready for connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MySQLContainer{
		MySQLContainer: ctr,
		ConnString:     connStr,
		Host:           host,
		Port:           mapped.Int(),
	}, nil
}

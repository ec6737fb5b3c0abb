package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkers/sqlgate/internal/retry"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the MySQL password.
type TokenBasedConnector struct {
	config        *sqlgate.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        sqlgate.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *sqlgate.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger sqlgate.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newConnectExecutor(config.Retry, logger),
		providerName:  providerName,
		logger:        logger,
	}
}

// Connect acquires a fresh token and opens a database handle inside the retry
// gate, so an expired token picked up on attempt one is replaced on retry.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*sql.DB, error) {
	var pool *sql.DB

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if c.logger != nil && time.Until(expiresOn) < 5*time.Minute {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, time.Until(expiresOn).Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		driverCfg := buildDriverConfig(&configWithToken)
		// IAM tokens arrive in cleartext over a TLS channel.
		driverCfg.AllowCleartextPasswords = true
		if driverCfg.TLSConfig == "" {
			driverCfg.TLSConfig = "true"
		}

		pool, err = sql.Open("mysql", driverCfg.FormatDSN())
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		configurePool(pool)

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

var _ sqlgate.Connector = (*TokenBasedConnector)(nil)

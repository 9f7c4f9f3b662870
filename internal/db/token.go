package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dexplore/internal/retry"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// TokenProvider supplies short-lived tokens used as the database password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)
	// String describes the provider without secrets.
	String() string
}

// tokenExpiryWarning is the remaining lifetime below which a token is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenConnector authenticates with a token fetched before every attempt.
type TokenConnector struct {
	config   *dexplore.ConnectionConfig
	provider TokenProvider
	exec     *retry.Executor
	logger   dexplore.Logger
}

func NewTokenConnector(cfg *dexplore.ConnectionConfig, provider TokenProvider, logger dexplore.Logger) *TokenConnector {
	return &TokenConnector{
		config:   cfg,
		provider: provider,
		exec:     newConnectExecutor(logger),
		logger:   logger,
	}
}

func (c *TokenConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return openPool(ctx, c.exec, c.config, func(ctx context.Context) (string, error) {
		token, expiresOn, err := c.provider.GetToken(ctx)
		if err != nil {
			return "", fmt.Errorf("acquire token from %s: %w: %w", c.provider, dexplore.ErrConnectionFailed, err)
		}
		if left := time.Until(expiresOn); left < tokenExpiryWarning && c.logger != nil {
			c.logger.Info("%s token expires in %s", c.provider, left.Round(time.Second))
		}
		withToken := *c.config
		withToken.Password = token
		return BuildConnectionString(&withToken), nil
	})
}

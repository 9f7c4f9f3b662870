// Package db serves metadata pages from a PostgreSQL catalog database.
//
// Connectors open pgx pools for standard credentials and for cloud IAM
// authentication. Opening a pool retries transient failures; queries made
// through the Store never retry.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dexplore/internal/retry"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// Pool sizing for an interactive browser: a handful of concurrent page loads.
const (
	DefaultMaxConns        = 4
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(pc *pgxpool.Config, appName string) {
	pc.MaxConns = DefaultMaxConns
	pc.MinConns = DefaultMinConns
	pc.MaxConnIdleTime = DefaultMaxConnIdleTime
	if appName == "" {
		appName = "dexplore"
	}
	pc.ConnConfig.RuntimeParams["application_name"] = appName
}

func newConnectExecutor(logger dexplore.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(dexplore.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(dexplore.DefaultRetryInitialDelay),
		retry.WithMaxDelay(dexplore.DefaultRetryMaxDelay),
	)
	exec := retry.NewExecutor(retry.ConnectClassifier{}, strategy)
	if logger == nil {
		return exec
	}
	return exec.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("connect attempt %d failed, retrying in %s: %v", attempt+1, delay.Round(time.Millisecond), err)
	})
}

// openPool parses connStr, opens a pool and pings it, retrying transient
// failures with exec. Each attempt calls prepare first so token based
// connectors can refresh credentials.
func openPool(ctx context.Context, exec *retry.Executor, cfg *dexplore.ConnectionConfig, prepare func(context.Context) (string, error)) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := exec.Execute(ctx, func(ctx context.Context) error {
		connStr, err := prepare(ctx)
		if err != nil {
			return err
		}
		pc, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("parse connection config: %w: %w", dexplore.ErrInvalidConfig, err)
		}
		configurePool(pc, cfg.AppName)

		p, err := pgxpool.NewWithConfig(ctx, pc)
		if err != nil {
			return wrapConnectionError(err, cfg)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, cfg)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// StandardConnector authenticates with a username and password.
type StandardConnector struct {
	config *dexplore.ConnectionConfig
	exec   *retry.Executor
}

func NewStandardConnector(cfg *dexplore.ConnectionConfig, logger dexplore.Logger) *StandardConnector {
	return &StandardConnector{config: cfg, exec: newConnectExecutor(logger)}
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := BuildConnectionString(c.config)
	return openPool(ctx, c.exec, c.config, func(context.Context) (string, error) {
		return connStr, nil
	})
}

// NewConnector returns the Connector for cfg.AuthMethod.
func NewConnector(cfg *dexplore.ConnectionConfig, logger dexplore.Logger) (dexplore.Connector, error) {
	switch cfg.AuthMethod {
	case dexplore.AuthMethodStandard:
		return NewStandardConnector(cfg, logger), nil
	case dexplore.AuthMethodAWSIAM:
		tp, err := NewAWSTokenProvider(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), cfg.AWSRegion, cfg.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, tp, logger), nil
	case dexplore.AuthMethodAzureEntraID:
		tp, err := newAzureTokenProvider(cfg)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, tp, logger), nil
	case dexplore.AuthMethodGoogleIAM:
		return NewGoogleConnector(cfg)
	}
	return nil, fmt.Errorf("auth method %s: %w", cfg.AuthMethod, dexplore.ErrUnsupportedAuthMethod)
}

// wrapConnectionError adds a hint for the common connection failures.
// The result always wraps both err and ErrConnectionFailed.
func wrapConnectionError(err error, cfg *dexplore.ConnectionConfig) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("connection refused by %s; is PostgreSQL running there?", addr)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q", cfg.Host)
	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf("authentication failed for user %q; check $PGPASSWORD or the connection string", cfg.Username)
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("catalog database %q does not exist", cfg.Database)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("connection to %s timed out", addr)
	case strings.Contains(msg, "ssl"), strings.Contains(msg, "tls"):
		hint = "SSL/TLS negotiation failed; check sslmode and certificates"
	default:
		hint = fmt.Sprintf("cannot connect to catalog database at %s", addr)
	}
	return fmt.Errorf("%s: %w: %w", hint, dexplore.ErrConnectionFailed, err)
}

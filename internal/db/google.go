package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// GoogleConnector reaches Cloud SQL through the Cloud SQL Go connector with
// IAM database authentication. Close releases the dialer after the pool is
// closed.
type GoogleConnector struct {
	config   *dexplore.ConnectionConfig
	instance string
	dialer   *cloudsqlconn.Dialer
}

func NewGoogleConnector(cfg *dexplore.ConnectionConfig) (*GoogleConnector, error) {
	switch {
	case cfg.GoogleInstance == "":
		return nil, fmt.Errorf("Cloud SQL IAM auth needs --google-instance (project:region:instance): %w", dexplore.ErrInvalidConfig)
	case cfg.Username == "":
		return nil, fmt.Errorf("Cloud SQL IAM auth needs a database user (-U): %w", dexplore.ErrInvalidConfig)
	}
	return &GoogleConnector{config: cfg, instance: cfg.GoogleInstance}, nil
}

func (c *GoogleConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("create Cloud SQL dialer: %w: %w", dexplore.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database)
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	pc.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configurePool(pc, c.config.AppName)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.config)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, wrapConnectionError(err, c.config)
	}
	c.dialer = dialer
	return pool, nil
}

func (c *GoogleConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// CloudSQLConnector dials Google Cloud SQL through the Cloud SQL connector
// with IAM database authentication. Close must be called after the pool
// returned by Connect has been closed.
type CloudSQLConnector struct {
	config *ldmcsv.ConnectionConfig
	logger ldmcsv.Logger
	dialer *cloudsqlconn.Dialer
}

// NewCloudSQLConnector needs config.GoogleInstance (project:region:instance)
// and config.Username.
func NewCloudSQLConnector(config *ldmcsv.ConnectionConfig, logger ldmcsv.Logger) (*CloudSQLConnector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires backend.postgres.google_instance: %w", ldmcsv.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a database username: %w", ldmcsv.ErrInvalidConfig)
	}
	return &CloudSQLConnector{config: config, logger: logger}, nil
}

func (c *CloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("create Cloud SQL dialer: %w: %w", ldmcsv.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("parse connection config: %w: %w", ldmcsv.ErrInvalidConfig, err)
	}
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.config.GoogleInstance)
	}
	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("connect to %s: %w: %w", c.config.GoogleInstance, ldmcsv.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, fmt.Errorf("ping %s: %w: %w", c.config.GoogleInstance, ldmcsv.ErrConnectionFailed, err)
	}

	c.dialer = dialer
	return pool, nil
}

// Close releases the dialer.
func (c *CloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

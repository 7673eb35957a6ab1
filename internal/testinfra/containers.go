// Package testinfra starts throwaway backend services for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "staging"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	Config *ldmcsv.ConnectionConfig
}

// StartPostgres runs a plain PostgreSQL container and returns connection
// settings for it. The caller terminates the container.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: ctr,
		Config: &ldmcsv.ConnectionConfig{
			Host:       host,
			Port:       port.Int(),
			Database:   PostgresDB,
			Username:   PostgresUser,
			Password:   PostgresPassword,
			SSLMode:    "disable",
			AuthMethod: ldmcsv.AuthMethodStandard,
			AppName:    "ldmcsv-test",
		},
	}, nil
}

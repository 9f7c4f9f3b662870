// Package testinfra starts the PostgreSQL instance used by integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "dexplore"
	PostgresPassword = "dexplore"
	PostgresDB       = "dexplore"

	// ConnEnv names a database to use instead of starting a container.
	ConnEnv = "DEXPLORE_TEST_CONN"
)

// PostgresContainer is a running container and its connection string.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres runs a throwaway PostgreSQL container.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			// The server restarts once after init scripts run.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}
	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

var (
	sharedOnce sync.Once
	sharedConn string
	sharedErr  error
)

// RequirePostgres returns a connection string for integration tests.
// It uses $DEXPLORE_TEST_CONN when set and otherwise starts one container
// shared by the test binary. The test is skipped in -short mode or when
// Docker is unavailable.
func RequirePostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if conn := os.Getenv(ConnEnv); conn != "" {
		return conn
	}

	sharedOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			sharedErr = err
			return
		}
		sharedConn = ctr.ConnString
	})
	if sharedErr != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnv, sharedErr)
	}
	return sharedConn
}

package db

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool is shared by every test in the package. Nil when the
// container could not start.
var testPool *pgxpool.Pool

// TestMain starts PostgreSQL 16 in a testcontainer unless -short is set.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		slog.Warn("postgres container unavailable, db tests skipped", "error", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() { _ = container.Terminate(ctx) }()

		host, err := container.Host(ctx)
		if err != nil {
			slog.Error("getting container host", "error", err)
			return 1
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			slog.Error("getting container port", "error", err)
			return 1
		}
		dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

		testPool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			slog.Error("connecting to test db", "error", err)
			return 1
		}
		defer testPool.Close()

		if err := runMigrations(ctx, testPool); err != nil {
			slog.Error("running migrations", "error", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

// setupTestDB returns the shared pool with tables truncated, or skips.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testPool == nil {
		tb.Skip("postgres not available")
	}
	if _, err := testPool.Exec(context.Background(), "TRUNCATE hunter_level_weights"); err != nil {
		tb.Logf("cleanup warning: %v", err)
	}
	return testPool
}

// runMigrations applies embedded migrations through a database/sql handle
// borrowed from the pool config.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	connStr := stdlib.RegisterConnConfig(pool.Config().ConnConfig)
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("opening sql.DB: %w", err)
	}
	defer sqlDB.Close()
	return migrate(ctx, sqlDB)
}

package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/osse101/OsuLink_Go/internal/database"
)

// container is shared by every test in the package. It is migrated once
// and snapshotted; each test restores the snapshot so rows never leak
// between tests.
var container *postgres.PostgresContainer

func TestMain(m *testing.M) {
	flag.Parse()
	if !testing.Short() {
		container = startContainer(context.Background())
	}

	code := m.Run()

	if container != nil {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func startContainer(ctx context.Context) (c *postgres.PostgresContainer) {
	defer func() {
		// testcontainers panics when no Docker daemon is reachable
		if r := recover(); r != nil {
			log.Printf("postgres container unavailable: %v", r)
			c = nil
		}
	}()

	c, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("osulink"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("postgres container unavailable: %v", err)
		return nil
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err == nil {
		err = migrateOnce(ctx, connStr)
	}
	if err == nil {
		err = c.Snapshot(ctx)
	}
	if err != nil {
		log.Printf("failed to prepare postgres container: %v", err)
		_ = c.Terminate(ctx)
		return nil
	}
	return c
}

func migrateOnce(ctx context.Context, connStr string) error {
	pool, err := database.NewPool(connStr, 4, time.Minute, time.Hour)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = database.Migrate(ctx, pool)
	return err
}

// setupTestPool returns a pool on a freshly restored, migrated database
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if container == nil {
		t.Skip("Skipping integration test: postgres container unavailable")
	}

	ctx := context.Background()
	require.NoError(t, container.Restore(ctx))

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(connStr, 10, 30*time.Minute, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

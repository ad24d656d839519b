package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/OsuLink_Go/internal/config"
	"github.com/osse101/OsuLink_Go/internal/database"
	"github.com/osse101/OsuLink_Go/internal/database/file"
	"github.com/osse101/OsuLink_Go/internal/database/memory"
	"github.com/osse101/OsuLink_Go/internal/database/postgres"
	"github.com/osse101/OsuLink_Go/internal/database/redisstore"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/repository"
)

// Repositories holds the persistence layer selected by configuration.
type Repositories struct {
	Linking       repository.Linking
	Token         repository.Token
	Authorization repository.Authorization

	// Set only for the backends that need them
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// InitializeRepositories opens the configured backends. PostgreSQL storage is
// migrated to the latest schema before use.
func InitializeRepositories(ctx context.Context, cfg *config.Config, now func() time.Time) (*Repositories, error) {
	ctx, cancel := context.WithTimeout(ctx, StartupTimeout)
	defer cancel()

	repos := &Repositories{}

	switch cfg.StorageBackend {
	case config.StorageBackendFile:
		slog.Info(LogMsgStorageFile, "dir", cfg.DataDir)
		repos.Linking = file.NewLinkingRepository(cfg.DataDir)
		repos.Token = file.NewTokenRepository(cfg.DataDir)

	case config.StorageBackendPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgConnectDatabase, err)
		}
		applied, err := database.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgMigrateDatabase, err)
		}
		slog.Info(LogMsgStoragePostgres, "db", cfg.DBName)
		slog.Info(LogMsgMigrationsApplied, "count", applied)

		repos.Pool = pool
		repos.Linking = postgres.NewLinkingRepository(pool)
		repos.Token = postgres.NewTokenRepository(pool)

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorage, cfg.StorageBackend)
	}

	if cfg.RedisURL != "" {
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			repos.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgConnectRedis, err)
		}
		slog.Info(LogMsgPendingStoreRedis)
		repos.Redis = client
		repos.Authorization = redisstore.NewAuthorizationStore(client, now)
	} else {
		slog.Info(LogMsgPendingStoreMemory)
		// The LRU ttl covers the longest deadline, a fresh attempt plus one retry grace
		repos.Authorization = memory.NewAuthorizationStore(memory.DefaultAuthorizationCapacity,
			cfg.AuthCallbackTimeout+cfg.AuthRetryGrace, now)
	}

	return repos, nil
}

// ReadinessChecks lists the network backends /readyz should probe
func (r *Repositories) ReadinessChecks() []handler.ReadinessCheck {
	var checks []handler.ReadinessCheck
	if r.Pool != nil {
		checks = append(checks, handler.PoolCheck(r.Pool))
	}
	if r.Redis != nil {
		client := r.Redis
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}
	return checks
}

// Close releases backend connections
func (r *Repositories) Close() {
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}

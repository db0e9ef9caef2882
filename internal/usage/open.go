package usage

import (
	"context"
	"fmt"

	"github.com/fixora-ai/fixora/internal/config"
	"github.com/fixora-ai/fixora/internal/database"
	iredis "github.com/fixora-ai/fixora/internal/redis"
)

// OpenStore connects the backend selected by cfg.Usage.Backend. The returned
// close function releases its connections. PostgreSQL migrations are applied
// before the pool opens.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Usage.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), func() {}, nil

	case config.BackendRedis:
		client, err := iredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client), func() { client.Close() }, nil

	case config.BackendPostgres:
		if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown usage backend %q", cfg.Usage.Backend)
	}
}

// NewServiceFromConfig wires a Service with the configured limit and day boundary.
func NewServiceFromConfig(store Store, cfg config.UsageConfig) *Service {
	return NewService(store, cfg.DailyLimit, WithLocation(cfg.Location()))
}

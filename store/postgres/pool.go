package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/tidepool-org/careprofiles/store"
)

func NewPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres connection string: %w", err)
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}
	return pool, nil
}

// NewLifecyclePool verifies connectivity on start and closes the pool when the
// application stops.
func NewLifecyclePool(cfg *Config, lifecycle fx.Lifecycle) (*pgxpool.Pool, error) {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

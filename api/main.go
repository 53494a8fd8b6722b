package api

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/authz"
	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/config"
	"github.com/tidepool-org/careprofiles/logger"
	"github.com/tidepool-org/careprofiles/outbox"
	profilesPostgres "github.com/tidepool-org/careprofiles/profiles/postgres"
	"github.com/tidepool-org/careprofiles/profiles/repository"
	"github.com/tidepool-org/careprofiles/profiles/service"
	"github.com/tidepool-org/careprofiles/store"
	"github.com/tidepool-org/careprofiles/store/postgres"
)

// StorePinger reports whether the configured profile store is reachable
type StorePinger func(ctx context.Context) error

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.HttpPort)); err != nil {
					e.Logger.Info(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, ping StorePinger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := ping(ctx); err != nil {
				return err
			}

			// Lifecycle hooks run in topological order, so the store and its
			// repositories are initialized by the time this runs
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			healthCheck.SetReady(false)
			return nil
		},
	})
}

// CollectIdleDrafts periodically discards draft sessions that were not used
// within the configured idle timeout.
func CollectIdleDrafts(registry *composer.Registry, cfg *composer.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	interval := cfg.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if removed := registry.RemoveIdle(); removed > 0 {
							logger.Infow("discarded idle drafts", "count", removed)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

// StoreModule provides the profile and outbox repositories of the given store
// driver together with a StorePinger for the readiness probe.
func StoreModule(driver string) fx.Option {
	if driver == config.StoreDriverPostgres {
		return fx.Module("postgres",
			fx.Provide(
				postgres.NewConfig,
				postgres.NewLifecyclePool,
				profilesPostgres.NewRepository,
				outbox.NewPostgresRepository,
				func(pool *pgxpool.Pool) StorePinger {
					return pool.Ping
				},
			),
		)
	}

	return fx.Module("mongo",
		fx.Provide(
			store.NewConfig,
			store.NewLifecycleClient,
			store.NewDatabase,
			repository.NewRepository,
			outbox.NewMongoRepository,
			func(db *mongo.Database) StorePinger {
				return func(ctx context.Context) error {
					return db.Client().Ping(ctx, nil)
				}
			},
		),
	)
}

// Dependencies returns the dependency graph shared by the service and the
// command line tools.
func Dependencies() []fx.Option {
	cfg, err := config.NewConfig()
	if err != nil {
		return []fx.Option{fx.Error(fmt.Errorf("could not load service configuration: %w", err))}
	}

	return []fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			service.NewService,
			composer.NewConfig,
			composer.NewRegistry,
			auth.NewConfig,
			auth.NewAuthenticator,
			authz.NewRequestAuthorizer,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
		StoreModule(cfg.StoreDriver),
	}
}

func MainLoop() {
	fx.New(
		append(
			Dependencies(),
			fx.Invoke(SetReady),
			fx.Invoke(CollectIdleDrafts),
			fx.Invoke(Start),
		)...,
	).Run()
}

package outbox

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS outbox (
	id           BIGSERIAL PRIMARY KEY,
	event_type   TEXT        NOT NULL,
	owner_id     TEXT        NOT NULL,
	created_time TIMESTAMPTZ NOT NULL,
	payload      BYTEA       NOT NULL
);
CREATE INDEX IF NOT EXISTS outbox_owner_created_time ON outbox (owner_id, created_time);
CREATE INDEX IF NOT EXISTS outbox_event_type ON outbox (event_type);
`

type postgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPostgresRepository stores events in the outbox table. Payloads keep their
// bson encoding so consumers decode both backends the same way.
func NewPostgresRepository(pool *pgxpool.Pool, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &postgresRepository{
		pool:   pool,
		logger: logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: repo.Initialize,
	})

	return repo, nil
}

func (r *postgresRepository) Initialize(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *postgresRepository) Create(ctx context.Context, event Event) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO outbox (event_type, owner_id, created_time, payload) VALUES ($1, $2, $3, $4)`,
		string(event.EventType), event.OwnerId, event.CreatedTime, []byte(event.Payload),
	)
	if err != nil {
		return fmt.Errorf("unable to record %s event: %w", event.EventType, err)
	}
	r.logger.Debugw("outbox event recorded", "eventType", event.EventType, "ownerId", event.OwnerId)
	return nil
}

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

const TableName = "profiles"

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                  UUID        PRIMARY KEY,
	owner_id            TEXT        NOT NULL,
	name                TEXT        NOT NULL,
	date_of_birth       TEXT        NOT NULL,
	age                 TEXT        NOT NULL,
	address             TEXT        NOT NULL,
	phone               TEXT        NOT NULL,
	emergency_contact_1 JSONB       NOT NULL,
	emergency_contact_2 JSONB       NOT NULL,
	description         TEXT        NOT NULL DEFAULT '',
	doctor              TEXT        NOT NULL DEFAULT '',
	hospital            TEXT        NOT NULL DEFAULT '',
	medicines           TEXT[]      NOT NULL DEFAULT '{}',
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS profiles_owner_created_at ON profiles (owner_id, created_at DESC);
`

const insertProfile = `
INSERT INTO profiles (
	id, owner_id, name, date_of_birth, age, address, phone,
	emergency_contact_1, emergency_contact_2,
	description, doctor, hospital, medicines, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

const selectByOwner = `
SELECT id::text, owner_id, name, date_of_birth, age, address, phone,
	emergency_contact_1, emergency_contact_2,
	description, doctor, hospital, medicines, created_at, updated_at
FROM profiles
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC
`

func NewRepository(pool *pgxpool.Pool, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (profiles.Repository, error) {
	repo := &repository{
		pool:   pool,
		logger: logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *repository) Create(ctx context.Context, profile profiles.Profile) (string, error) {
	if err := profiles.CheckPersistable(profile); err != nil {
		return "", errors.NewStorageError("create profile", err)
	}

	id := uuid.New()
	_, err := r.pool.Exec(ctx, insertProfile,
		id,
		profile.OwnerId,
		profile.Name,
		profile.DateOfBirth,
		profile.Age,
		profile.Address,
		profile.Phone,
		profile.EmergencyContact1,
		profile.EmergencyContact2,
		profile.Description,
		profile.Doctor,
		profile.Hospital,
		profiles.CleanMedicines(profile.Medicines),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return "", errors.NewStorageError("create profile", err)
	}

	return id.String(), nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerId string) ([]profiles.Profile, error) {
	rows, err := r.pool.Query(ctx, selectByOwner, ownerId)
	if err != nil {
		return nil, errors.NewStorageError("list profiles", err)
	}

	result, err := pgx.CollectRows(rows, scanProfile)
	if err != nil {
		return nil, errors.NewStorageError("decode profiles", err)
	}
	if result == nil {
		result = make([]profiles.Profile, 0)
	}

	return result, nil
}

func scanProfile(row pgx.CollectableRow) (profiles.Profile, error) {
	var profile profiles.Profile
	err := row.Scan(
		&profile.Id,
		&profile.OwnerId,
		&profile.Name,
		&profile.DateOfBirth,
		&profile.Age,
		&profile.Address,
		&profile.Phone,
		&profile.EmergencyContact1,
		&profile.EmergencyContact2,
		&profile.Description,
		&profile.Doctor,
		&profile.Hospital,
		&profile.Medicines,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	profile.CreatedAt = profile.CreatedAt.UTC()
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return profile, err
}

package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
	"github.com/tidepool-org/careprofiles/store"
)

const (
	CollectionName = "profiles"

	// OwnerCreatedTimeIndexName must exist for owner listings to execute.
	OwnerCreatedTimeIndexName = "OwnerCreatedTime"
)

var createdAtSort = store.Sort{Attribute: "createdAt", Ascending: false}

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (profiles.Repository, error) {
	repo := &repository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ownerId", Value: 1},
				{Key: "createdAt", Value: createdAtSort.Order()},
			},
			Options: options.Index().
				SetBackground(true).
				SetName(OwnerCreatedTimeIndexName),
		},
	})
	return err
}

func (r *repository) Create(ctx context.Context, profile profiles.Profile) (string, error) {
	if err := profiles.CheckPersistable(profile); err != nil {
		return "", errors.NewStorageError("create profile", err)
	}
	profile.Id = ""
	profile.Medicines = profiles.CleanMedicines(profile.Medicines)

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return "", errors.NewStorageError("create profile", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.NewStorageError("create profile", fmt.Errorf("unexpected inserted id %v", result.InsertedID))
	}

	return id.Hex(), nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerId string) ([]profiles.Profile, error) {
	selector := bson.M{
		"ownerId": ownerId,
	}
	opts := options.Find().
		SetHint(OwnerCreatedTimeIndexName).
		SetSort(bson.D{
			{Key: createdAtSort.Attribute, Value: createdAtSort.Order()},
			{Key: "_id", Value: createdAtSort.Order()},
		})

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		if store.IsQueryPlanError(err) {
			r.logger.Errorw("profile listing index is missing", "index", OwnerCreatedTimeIndexName, zap.Error(err))
		}
		return nil, errors.NewStorageError("list profiles", err)
	}

	result := make([]profiles.Profile, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, errors.NewStorageError("decode profiles", err)
	}

	return result, nil
}

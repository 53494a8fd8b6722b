package outbox

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const OwnerCreatedTimeIndexName = "OwnerCreatedTime"

type mongoRepository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func NewMongoRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &mongoRepository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: repo.Initialize,
	})

	return repo, nil
}

func (r *mongoRepository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ownerId", Value: 1},
				{Key: "createdTime", Value: 1},
			},
			Options: options.Index().SetName(OwnerCreatedTimeIndexName),
		},
		{
			Keys:    bson.D{{Key: "eventType", Value: 1}},
			Options: options.Index().SetName("EventType"),
		},
	})
	if err != nil {
		return fmt.Errorf("unable to create outbox indexes: %w", err)
	}
	return nil
}

func (r *mongoRepository) Create(ctx context.Context, event Event) error {
	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("unable to record %s event: %w", event.EventType, err)
	}
	r.logger.Debugw("outbox event recorded", "eventType", event.EventType, "ownerId", event.OwnerId, "id", result.InsertedID)
	return nil
}

package outbox

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/careprofiles/profiles"
)

const CollectionName = "outbox"

type EventType string

const (
	EventTypeProfileCreated EventType = "profileCreated"
)

// Event is a side effect of a committed profile, recorded for downstream
// consumers. OwnerId is the caregiver the event belongs to so consumers can
// process the events of one caregiver in order.
type Event struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty"`
	EventType   EventType           `bson:"eventType"`
	OwnerId     string              `bson:"ownerId"`
	CreatedTime time.Time           `bson:"createdTime"`
	Payload     bson.Raw            `bson:"payload"`
}

type ProfileCreatedPayload struct {
	ProfileId string    `bson:"profileId"`
	OwnerId   string    `bson:"ownerId"`
	Name      string    `bson:"name"`
	Medicines int       `bson:"medicines"`
	CreatedAt time.Time `bson:"createdAt"`
}

//go:generate go tool mockgen -source=./outbox.go -destination=./test/mock_outbox.go -package test

type Repository interface {
	Create(ctx context.Context, event Event) error
	Initialize(ctx context.Context) error
}

// NewProfileCreatedEvent returns the event announcing that profile was stored
// under profileId.
func NewProfileCreatedEvent(profileId string, profile profiles.Profile) (Event, error) {
	return newEvent(EventTypeProfileCreated, profile.OwnerId, ProfileCreatedPayload{
		ProfileId: profileId,
		OwnerId:   profile.OwnerId,
		Name:      profile.Name,
		Medicines: len(profile.Medicines),
		CreatedAt: profile.CreatedAt,
	})
}

func newEvent(eventType EventType, ownerId string, payload interface{}) (Event, error) {
	raw, err := bson.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("unable to encode %s payload: %w", eventType, err)
	}

	return Event{
		EventType:   eventType,
		OwnerId:     ownerId,
		CreatedTime: time.Now().UTC().Truncate(time.Millisecond),
		Payload:     raw,
	}, nil
}

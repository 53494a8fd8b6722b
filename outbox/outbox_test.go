package outbox_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/outbox"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
	dbTest "github.com/tidepool-org/careprofiles/store/test"
	"github.com/tidepool-org/careprofiles/test"
)

var _ = Describe("Outbox Repository", func() {
	var repo outbox.Repository
	var database *mongo.Database
	var collection *mongo.Collection

	BeforeEach(func() {
		database = dbTest.GetTestDatabase()
		collection = database.Collection(outbox.CollectionName)
		lifecycle := fxtest.NewLifecycle(GinkgoT())

		var err error
		repo, err = outbox.NewMongoRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		Expect(repo).ToNot(BeNil())
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		_ = collection.Drop(context.Background())
	})

	Describe("Create", func() {
		It("inserts a profile created event keyed by owner", func() {
			profile := profilesTest.RandomProfile(test.RandomOwnerId(), time.Now())

			event, err := outbox.NewProfileCreatedEvent("profile123", profile)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.Create(context.Background(), event)).To(Succeed())

			var result outbox.Event
			err = collection.FindOne(context.Background(), bson.M{"ownerId": profile.OwnerId}).Decode(&result)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Id).ToNot(BeNil())
			Expect(result.EventType).To(Equal(outbox.EventTypeProfileCreated))
			Expect(result.CreatedTime).To(BeTemporally("==", event.CreatedTime))

			var payload outbox.ProfileCreatedPayload
			Expect(bson.Unmarshal(result.Payload, &payload)).To(Succeed())
			Expect(payload.ProfileId).To(Equal("profile123"))
			Expect(payload.OwnerId).To(Equal(profile.OwnerId))
			Expect(payload.Name).To(Equal(profile.Name))
			Expect(payload.Medicines).To(Equal(len(profile.Medicines)))
			Expect(payload.CreatedAt).To(BeTemporally("==", profile.CreatedAt))
		})
	})

	Describe("Initialize", func() {
		It("creates the owner index", func() {
			cursor, err := collection.Indexes().List(context.Background())
			Expect(err).ToNot(HaveOccurred())

			var indexes []bson.M
			Expect(cursor.All(context.Background(), &indexes)).To(Succeed())

			names := make([]interface{}, 0, len(indexes))
			for _, index := range indexes {
				names = append(names, index["name"])
			}
			Expect(names).To(ContainElement(outbox.OwnerCreatedTimeIndexName))
		})
	})
})

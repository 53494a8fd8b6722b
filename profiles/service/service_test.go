package service_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/outbox"
	outboxTest "github.com/tidepool-org/careprofiles/outbox/test"
	"github.com/tidepool-org/careprofiles/profiles"
	profilesService "github.com/tidepool-org/careprofiles/profiles/service"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
	"github.com/tidepool-org/careprofiles/test"
)

var _ = Describe("Profiles Service", func() {
	var service profiles.Service
	var repo *profilesTest.MockRepository
	var outboxRepo *outboxTest.MockRepository
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = profilesTest.NewMockRepository(ctrl)
		outboxRepo = outboxTest.NewMockRepository(ctrl)

		var err error
		service, err = profilesService.NewService(repo, outboxRepo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("Create", func() {
		var profile profiles.Profile

		BeforeEach(func() {
			profile = profilesTest.RandomProfile(test.RandomOwnerId(), time.Now())
		})

		It("creates the profile and records a profile created event", func() {
			repo.EXPECT().
				Create(gomock.Any(), gomock.Eq(profile)).
				Return("profile123", nil)

			outboxRepo.EXPECT().
				Create(gomock.Any(), test.Match(func(event outbox.Event) bool {
					if event.EventType != outbox.EventTypeProfileCreated || event.OwnerId != profile.OwnerId {
						return false
					}
					var payload outbox.ProfileCreatedPayload
					if err := bson.Unmarshal(event.Payload, &payload); err != nil {
						return false
					}
					return payload.ProfileId == "profile123" && payload.OwnerId == profile.OwnerId &&
						payload.Name == profile.Name && payload.CreatedAt.Equal(profile.CreatedAt)
				})).
				Return(nil)

			id, err := service.Create(context.Background(), profile)
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(Equal("profile123"))
		})

		It("returns the id even if the event cannot be recorded", func() {
			repo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return("profile123", nil)
			outboxRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return(fmt.Errorf("outbox is down"))

			id, err := service.Create(context.Background(), profile)
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(Equal("profile123"))
		})

		It("does not record an event when the store fails", func() {
			storageErr := errors.NewStorageError("create profile", fmt.Errorf("connection refused"))
			repo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				Return("", storageErr)

			id, err := service.Create(context.Background(), profile)
			Expect(err).To(MatchError(storageErr))
			Expect(id).To(BeEmpty())
		})
	})

	Describe("ListByOwner", func() {
		It("returns the profiles of the store", func() {
			ownerId := test.RandomOwnerId()
			expected := []profiles.Profile{profilesTest.RandomProfile(ownerId, time.Now())}
			repo.EXPECT().
				ListByOwner(gomock.Any(), gomock.Eq(ownerId)).
				Return(expected, nil)

			result, err := service.ListByOwner(context.Background(), ownerId)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expected))
		})

		It("passes storage errors through", func() {
			repo.EXPECT().
				ListByOwner(gomock.Any(), gomock.Any()).
				Return(nil, errors.NewStorageError("list profiles", fmt.Errorf("timeout")))

			result, err := service.ListByOwner(context.Background(), test.RandomOwnerId())
			Expect(errors.IsStorageError(err)).To(BeTrue())
			Expect(result).To(BeNil())
		})
	})
})

package postgres_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
	profilesPostgres "github.com/tidepool-org/careprofiles/profiles/postgres"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
	pgTest "github.com/tidepool-org/careprofiles/store/postgres/test"
	"github.com/tidepool-org/careprofiles/test"
)

var _ = Describe("Profiles Postgres Repository", func() {
	var repo profiles.Repository
	var pool *pgxpool.Pool

	BeforeEach(func() {
		pool = pgTest.GetTestPool()
		lifecycle := fxtest.NewLifecycle(GinkgoT())

		var err error
		repo, err = profilesPostgres.NewRepository(pool, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", profilesPostgres.TableName))
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("returns a uuid and stores every field", func() {
			ownerId := test.RandomOwnerId()
			profile := profilesTest.RandomProfile(ownerId, time.Now())

			id, err := repo.Create(context.Background(), profile)
			Expect(err).ToNot(HaveOccurred())
			Expect(uuid.Validate(id)).To(Succeed())

			result, err := repo.ListByOwner(context.Background(), ownerId)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Id).To(Equal(id))
			Expect(result[0]).To(profilesTest.ProfileFieldsMatcher(profile))
		})

		It("never persists blank medicines", func() {
			ownerId := test.RandomOwnerId()
			profile := profilesTest.RandomProfile(ownerId, time.Now())
			profile.Medicines = []string{" ", "Aspirin 81mg", ""}

			_, err := repo.Create(context.Background(), profile)
			Expect(err).ToNot(HaveOccurred())

			result, err := repo.ListByOwner(context.Background(), ownerId)
			Expect(err).ToNot(HaveOccurred())
			Expect(result[0].Medicines).To(Equal([]string{"Aspirin 81mg"}))
		})

		It("refuses a profile that was not normalized", func() {
			_, err := repo.Create(context.Background(), profilesTest.RandomDraft())
			Expect(errors.IsStorageError(err)).To(BeTrue())
		})
	})

	Describe("ListByOwner", func() {
		It("returns only the profiles of the owner, newest first", func() {
			ownerA := test.RandomOwnerId()
			ownerB := test.RandomOwnerId()
			for i, createdAt := range test.RandomDistinctTimes(8) {
				owner := ownerA
				if i%2 == 0 {
					owner = ownerB
				}
				_, err := repo.Create(context.Background(), profilesTest.RandomProfile(owner, createdAt))
				Expect(err).ToNot(HaveOccurred())
			}

			result, err := repo.ListByOwner(context.Background(), ownerA)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(4))
			for i, profile := range result {
				Expect(profile.OwnerId).To(Equal(ownerA))
				if i > 0 {
					Expect(profile.CreatedAt).To(BeTemporally("<", result[i-1].CreatedAt))
				}
			}
		})

		It("returns an empty list for an owner without profiles", func() {
			result, err := repo.ListByOwner(context.Background(), test.RandomOwnerId())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).ToNot(BeNil())
			Expect(result).To(BeEmpty())
		})

		It("returns a storage error when the query cannot execute", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := repo.ListByOwner(ctx, test.RandomOwnerId())
			Expect(errors.IsStorageError(err)).To(BeTrue())
			Expect(result).To(BeNil())
		})
	})
})

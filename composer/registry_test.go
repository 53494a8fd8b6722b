package composer_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/errors"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
	"github.com/tidepool-org/careprofiles/test"
)

var _ = Describe("Registry", func() {
	var ctrl *gomock.Controller
	var store *profilesTest.MockService
	var registry *composer.Registry
	var caregiver auth.Identity
	var now time.Time

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		store = profilesTest.NewMockService(ctrl)
		caregiver = auth.Identity{SubjectId: test.RandomOwnerId()}
		now = time.Now()

		var err error
		registry, err = composer.NewRegistry(&composer.Config{MaxSessions: 2, IdleTimeout: time.Minute}, store, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		composer.SetRegistryClock(registry, func() time.Time { return now })
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("returns the composer of a started session", func() {
		id, started := registry.Start(caregiver)
		Expect(id).ToNot(BeEmpty())

		c, err := registry.Get(id, caregiver)
		Expect(err).ToNot(HaveOccurred())
		Expect(c).To(BeIdenticalTo(started))
	})

	It("hides sessions from other identities", func() {
		id, _ := registry.Start(caregiver)

		_, err := registry.Get(id, auth.Identity{SubjectId: test.RandomOwnerId()})
		Expect(err).To(MatchError(composer.ErrDraftNotFound))
		Expect(err).To(MatchError(errors.NotFound))

		err = registry.Discard(id, auth.Identity{SubjectId: test.RandomOwnerId()})
		Expect(err).To(MatchError(composer.ErrDraftNotFound))
		Expect(registry.Len()).To(Equal(1))
	})

	It("clears the identity of a discarded session", func() {
		id, c := registry.Start(caregiver)
		fill(c, profilesTest.ScenarioDraft())

		Expect(registry.Discard(id, caregiver)).To(Succeed())
		_, err := registry.Get(id, caregiver)
		Expect(err).To(MatchError(composer.ErrDraftNotFound))

		_, err = c.Commit(context.Background())
		Expect(err).To(MatchError(errors.ErrUnauthenticated))
	})

	It("expires idle sessions", func() {
		id, _ := registry.Start(caregiver)

		now = now.Add(30 * time.Second)
		_, err := registry.Get(id, caregiver)
		Expect(err).ToNot(HaveOccurred())

		now = now.Add(2 * time.Minute)
		_, err = registry.Get(id, caregiver)
		Expect(err).To(MatchError(composer.ErrDraftNotFound))
		Expect(registry.Len()).To(BeZero())
	})

	It("removes idle sessions in bulk", func() {
		registry.Start(caregiver)
		now = now.Add(2 * time.Minute)
		active, _ := registry.Start(caregiver)

		Expect(registry.RemoveIdle()).To(Equal(1))
		_, err := registry.Get(active, caregiver)
		Expect(err).ToNot(HaveOccurred())
	})

	It("evicts the least recently used session when full", func() {
		first, _ := registry.Start(caregiver)
		second, _ := registry.Start(caregiver)

		_, err := registry.Get(first, caregiver)
		Expect(err).ToNot(HaveOccurred())

		third, _ := registry.Start(caregiver)
		Expect(registry.Len()).To(Equal(2))

		_, err = registry.Get(second, caregiver)
		Expect(err).To(MatchError(composer.ErrDraftNotFound))
		_, err = registry.Get(first, caregiver)
		Expect(err).ToNot(HaveOccurred())
		_, err = registry.Get(third, caregiver)
		Expect(err).ToNot(HaveOccurred())
	})
})

package api_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/api"
	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/composer"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
)

var _ = Describe("Mappers", func() {
	It("builds patches that reproduce the input in a fresh draft", func() {
		draft := profilesTest.RandomDraft()
		draft.Medicines = []string{"Aspirin 81mg", "", "Metformin 500mg"}
		input := api.NewProfileInputDto(draft)

		c := composer.New(auth.NewSession(nil), nil, zap.NewNop().Sugar())
		for i := 1; i < len(input.Medicines); i++ {
			_, err := c.AddMedicineSlot()
			Expect(err).ToNot(HaveOccurred())
		}
		for _, patch := range api.NewPatches(input) {
			Expect(c.Apply(patch)).To(Succeed())
		}

		Expect(api.NewProfileInputDto(c.Draft())).To(Equal(input))
	})

	It("never returns a nil medicines list", func() {
		Expect(api.NewProfileInputDto(profilesTest.RandomDraft()).Medicines).ToNot(BeNil())
		Expect(api.NewProfileListDto(nil).Profiles).ToNot(BeNil())
	})
})

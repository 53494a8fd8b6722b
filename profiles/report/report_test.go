package report_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/careprofiles/profiles"
	"github.com/tidepool-org/careprofiles/profiles/report"
	profilesTest "github.com/tidepool-org/careprofiles/profiles/test"
)

const (
	// profilesSheetIdx is the 0-based index of the profiles sheet in the xlsx.
	profilesSheetIdx = 0
	// medicinesSheetIdx is the 0-based index of the medicines sheet in the xlsx.
	medicinesSheetIdx = 1
	// firstProfileRowIdx is the 0-based index of the first profile data row.
	firstProfileRowIdx = 2
)

func toSlice(f *xlsx.File) [][][]string {
	m, err := f.ToSlice()
	Expect(err).To(Succeed())
	return m
}

var _ = Describe("Profiles report", func() {
	var createdAt time.Time
	var scenario profiles.Profile

	BeforeEach(func() {
		createdAt = time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
		scenario = profiles.Normalize(profilesTest.ScenarioDraft(), "caregiver", createdAt)
	})

	It("has a profiles and a medicines sheet", func() {
		f, err := report.NewReport("caregiver", nil).Generate()
		Expect(err).ToNot(HaveOccurred())
		Expect(f.Sheets).To(HaveLen(2))
		Expect(f.Sheets[profilesSheetIdx].Name).To(Equal(report.ReportSheetNameProfiles))
		Expect(f.Sheets[medicinesSheetIdx].Name).To(Equal(report.ReportSheetNameMedicines))
	})

	It("writes one row per profile", func() {
		f, err := report.NewReport("caregiver", []profiles.Profile{scenario}).Generate()
		Expect(err).ToNot(HaveOccurred())

		m := toSlice(f)
		Expect(m[profilesSheetIdx][0][0]).To(Equal("Profiles of caregiver (1)"))
		Expect(m[profilesSheetIdx][firstProfileRowIdx]).To(Equal([]string{
			"John Smith", "1945-05-15", "78", "555-0100", "1 Main St", "", "", "",
			"Aspirin 81mg",
			"Mary", "Daughter", "555-0101",
			"Bob", "Son", "555-0102",
			"2024-03-14 09:26:53",
		}))
	})

	It("lists every medicine on its own row", func() {
		other := profiles.Normalize(profilesTest.ScenarioDraft(), "caregiver", createdAt)
		other.Name = "Jane Smith"
		other.Medicines = []string{"Metformin 500mg", "Lisinopril 10mg"}

		f, err := report.NewReport("caregiver", []profiles.Profile{scenario, other}).Generate()
		Expect(err).ToNot(HaveOccurred())

		m := toSlice(f)
		Expect(m[medicinesSheetIdx][1:]).To(Equal([][]string{
			{"John Smith", "Aspirin 81mg"},
			{"Jane Smith", "Metformin 500mg"},
			{"Jane Smith", "Lisinopril 10mg"},
		}))
	})
})

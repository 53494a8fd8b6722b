package test

import (
	"strconv"
	"time"

	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"

	"github.com/tidepool-org/careprofiles/profiles"
	"github.com/tidepool-org/careprofiles/test"
)

var relations = []string{"Daughter", "Son", "Spouse", "Neighbour", "Friend", "Caregiver"}

// RandomDraft returns a profile with every required field populated, as it
// would be entered by a caregiver before commit.
func RandomDraft() profiles.Profile {
	birthDate := test.Faker.Time().TimeBetween(time.Now().AddDate(-100, 0, 0), time.Now().AddDate(-65, 0, 0))
	medicines := make([]string, test.Faker.IntBetween(0, 4))
	for i := range medicines {
		medicines[i] = test.Faker.Lorem().Word() + " " + strconv.Itoa(test.Faker.IntBetween(5, 500)) + "mg"
	}

	return profiles.Profile{
		Name:              test.Faker.Person().Name(),
		DateOfBirth:       birthDate.Format(time.DateOnly),
		Age:               strconv.Itoa(time.Now().Year() - birthDate.Year()),
		Address:           test.Faker.Address().Address(),
		Phone:             test.Faker.Phone().Number(),
		EmergencyContact1: RandomEmergencyContact(),
		EmergencyContact2: RandomEmergencyContact(),
		Description:       test.Faker.Lorem().Sentence(8),
		Doctor:            test.Faker.Person().Name(),
		Hospital:          test.Faker.Company().Name(),
		Medicines:         medicines,
	}
}

// RandomProfile returns a normalized profile owned by ownerId and created at
// the given time.
func RandomProfile(ownerId string, createdAt time.Time) profiles.Profile {
	return profiles.Normalize(RandomDraft(), ownerId, createdAt)
}

func RandomEmergencyContact() profiles.EmergencyContact {
	return profiles.EmergencyContact{
		Name:     test.Faker.Person().Name(),
		Relation: test.Faker.RandomStringElement(relations),
		Phone:    test.Faker.Phone().Number(),
	}
}

// ScenarioDraft is the reference draft used across the composer and store
// suites.
func ScenarioDraft() profiles.Profile {
	return profiles.Profile{
		Name:        "John Smith",
		DateOfBirth: "1945-05-15",
		Age:         "78",
		Phone:       "555-0100",
		Address:     "1 Main St",
		EmergencyContact1: profiles.EmergencyContact{
			Name:     "Mary",
			Relation: "Daughter",
			Phone:    "555-0101",
		},
		EmergencyContact2: profiles.EmergencyContact{
			Name:     "Bob",
			Relation: "Son",
			Phone:    "555-0102",
		},
		Medicines: []string{"", "Aspirin 81mg", ""},
	}
}

func ProfileFieldsMatcher(profile profiles.Profile) types.GomegaMatcher {
	return MatchAllFields(Fields{
		"Id":                Not(BeEmpty()),
		"OwnerId":           Equal(profile.OwnerId),
		"Name":              Equal(profile.Name),
		"DateOfBirth":       Equal(profile.DateOfBirth),
		"Age":               Equal(profile.Age),
		"Address":           Equal(profile.Address),
		"Phone":             Equal(profile.Phone),
		"EmergencyContact1": Equal(profile.EmergencyContact1),
		"EmergencyContact2": Equal(profile.EmergencyContact2),
		"Description":       Equal(profile.Description),
		"Doctor":            Equal(profile.Doctor),
		"Hospital":          Equal(profile.Hospital),
		"Medicines":         medicinesMatcher(profile.Medicines),
		"CreatedAt":         BeTemporally("==", profile.CreatedAt),
		"UpdatedAt":         BeTemporally("==", profile.UpdatedAt),
	})
}

func medicinesMatcher(medicines []string) types.GomegaMatcher {
	if len(medicines) == 0 {
		return BeEmpty()
	}
	return Equal(medicines)
}

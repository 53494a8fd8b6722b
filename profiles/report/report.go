package report

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/careprofiles/profiles"
)

const (
	ReportSheetNameProfiles  = "Profiles"
	ReportSheetNameMedicines = "Medicines"

	CreatedTimeFormat = "2006-01-02 15:04:05"
)

var profileColumns = []string{
	"Name",
	"Date of Birth",
	"Age",
	"Phone",
	"Address",
	"Doctor",
	"Hospital",
	"Description",
	"Medicines",
	"Emergency Contact 1",
	"Relation",
	"Phone",
	"Emergency Contact 2",
	"Relation",
	"Phone",
	"Created",
}

// Report is a spreadsheet export of the profiles of a single owner.
type Report struct {
	ownerId  string
	profiles []profiles.Profile
}

func NewReport(ownerId string, list []profiles.Profile) Report {
	return Report{ownerId: ownerId, profiles: list}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addProfilesSheet,
		r.addMedicinesSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addProfilesSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameProfiles)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue(fmt.Sprintf("Profiles of %s (%d)", r.ownerId, len(r.profiles)))

	header := sh.AddRow()
	for _, column := range profileColumns {
		header.AddCell().SetValue(column)
	}

	for _, profile := range r.profiles {
		row := sh.AddRow()
		row.AddCell().SetValue(profile.Name)
		row.AddCell().SetValue(profile.DateOfBirth)
		row.AddCell().SetValue(profile.Age)
		row.AddCell().SetValue(profile.Phone)
		row.AddCell().SetValue(profile.Address)
		row.AddCell().SetValue(profile.Doctor)
		row.AddCell().SetValue(profile.Hospital)
		row.AddCell().SetValue(profile.Description)
		row.AddCell().SetValue(strings.Join(profiles.CleanMedicines(profile.Medicines), ", "))
		for _, slot := range profiles.ContactSlots {
			contact := profile.EmergencyContact(slot)
			row.AddCell().SetValue(contact.Name)
			row.AddCell().SetValue(contact.Relation)
			row.AddCell().SetValue(contact.Phone)
		}
		row.AddCell().SetValue(profile.CreatedAt.UTC().Format(CreatedTimeFormat))
	}

	return nil
}

func (r Report) addMedicinesSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameMedicines)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	header.AddCell().SetValue("Profile")
	header.AddCell().SetValue("Medicine")

	for _, profile := range r.profiles {
		for _, medicine := range profiles.CleanMedicines(profile.Medicines) {
			row := sh.AddRow()
			row.AddCell().SetValue(profile.Name)
			row.AddCell().SetValue(medicine)
		}
	}

	return nil
}

package api

import (
	"github.com/tidepool-org/careprofiles/profiles"
)

type DraftId = string

type UserId = string

type ListProfilesParamsFormat string

const (
	ListProfilesParamsFormatJson ListProfilesParamsFormat = "json"
	ListProfilesParamsFormatText ListProfilesParamsFormat = "text"
)

type ListProfilesParams struct {
	Format *ListProfilesParamsFormat `form:"format,omitempty" json:"format,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

type ProfileInput struct {
	Name              string           `json:"name"`
	DateOfBirth       string           `json:"dateOfBirth"`
	Age               string           `json:"age"`
	Address           string           `json:"address"`
	Phone             string           `json:"phone"`
	EmergencyContact1 EmergencyContact `json:"emergencyContact1"`
	EmergencyContact2 EmergencyContact `json:"emergencyContact2"`
	Description       string           `json:"description"`
	Doctor            string           `json:"doctor"`
	Hospital          string           `json:"hospital"`
	Medicines         []string         `json:"medicines"`
}

type Draft struct {
	Id      DraftId      `json:"id"`
	State   string       `json:"state"`
	Profile ProfileInput `json:"profile"`
}

type FieldPatch struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

type ProfileCreated struct {
	Id string `json:"id"`
}

type ProfileList struct {
	Profiles []profiles.Profile `json:"profiles"`
	Count    int                `json:"count"`
	Empty    bool               `json:"empty"`
}

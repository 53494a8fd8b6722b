package api

import (
	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/profiles"
)

func NewDraftDto(id DraftId, c *composer.Composer) Draft {
	return Draft{
		Id:      id,
		State:   c.State().String(),
		Profile: NewProfileInputDto(c.Draft()),
	}
}

func NewProfileInputDto(profile profiles.Profile) ProfileInput {
	medicines := profile.Medicines
	if medicines == nil {
		medicines = []string{}
	}
	return ProfileInput{
		Name:              profile.Name,
		DateOfBirth:       profile.DateOfBirth,
		Age:               profile.Age,
		Address:           profile.Address,
		Phone:             profile.Phone,
		EmergencyContact1: NewEmergencyContactDto(profile.EmergencyContact1),
		EmergencyContact2: NewEmergencyContactDto(profile.EmergencyContact2),
		Description:       profile.Description,
		Doctor:            profile.Doctor,
		Hospital:          profile.Hospital,
		Medicines:         medicines,
	}
}

func NewEmergencyContactDto(contact profiles.EmergencyContact) EmergencyContact {
	return EmergencyContact{
		Name:     contact.Name,
		Relation: contact.Relation,
		Phone:    contact.Phone,
	}
}

func NewProfileListDto(list []profiles.Profile) ProfileList {
	if list == nil {
		list = []profiles.Profile{}
	}
	return ProfileList{
		Profiles: list,
		Count:    len(list),
		Empty:    len(list) == 0,
	}
}

// NewPatches returns the field patches that reproduce the input in a fresh
// draft. Medicine patches address slots by position, so the draft must have
// one slot per medicine.
func NewPatches(input ProfileInput) []composer.Patch {
	patches := []composer.Patch{
		{Path: composer.Path(composer.FieldName), Value: input.Name},
		{Path: composer.Path(composer.FieldDateOfBirth), Value: input.DateOfBirth},
		{Path: composer.Path(composer.FieldAge), Value: input.Age},
		{Path: composer.Path(composer.FieldAddress), Value: input.Address},
		{Path: composer.Path(composer.FieldPhone), Value: input.Phone},
		{Path: composer.Path(composer.FieldDescription), Value: input.Description},
		{Path: composer.Path(composer.FieldDoctor), Value: input.Doctor},
		{Path: composer.Path(composer.FieldHospital), Value: input.Hospital},
	}

	contacts := map[profiles.ContactSlot]EmergencyContact{
		profiles.ContactSlot1: input.EmergencyContact1,
		profiles.ContactSlot2: input.EmergencyContact2,
	}
	for _, slot := range profiles.ContactSlots {
		contact := contacts[slot]
		patches = append(patches,
			composer.Patch{Path: composer.ContactPath(slot, composer.ContactFieldName), Value: contact.Name},
			composer.Patch{Path: composer.ContactPath(slot, composer.ContactFieldRelation), Value: contact.Relation},
			composer.Patch{Path: composer.ContactPath(slot, composer.ContactFieldPhone), Value: contact.Phone},
		)
	}

	for i, medicine := range input.Medicines {
		patches = append(patches, composer.Patch{Path: composer.MedicinePath(i), Value: medicine})
	}

	return patches
}

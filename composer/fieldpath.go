package composer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

type Field int

const (
	FieldName Field = iota + 1
	FieldDateOfBirth
	FieldAge
	FieldAddress
	FieldPhone
	FieldDescription
	FieldDoctor
	FieldHospital
	FieldEmergencyContact
	FieldMedicine
)

type ContactField int

const (
	ContactFieldName ContactField = iota + 1
	ContactFieldRelation
	ContactFieldPhone
)

// FieldPath addresses a single editable value of a draft. Slot and
// ContactField are only meaningful for FieldEmergencyContact, Index only for
// FieldMedicine.
type FieldPath struct {
	Field        Field
	Slot         profiles.ContactSlot
	ContactField ContactField
	Index        int
}

var fieldNames = map[string]Field{
	"name":        FieldName,
	"dateOfBirth": FieldDateOfBirth,
	"age":         FieldAge,
	"address":     FieldAddress,
	"phone":       FieldPhone,
	"description": FieldDescription,
	"doctor":      FieldDoctor,
	"hospital":    FieldHospital,
}

var contactSlotNames = map[string]profiles.ContactSlot{
	"emergencyContact1": profiles.ContactSlot1,
	"emergencyContact2": profiles.ContactSlot2,
}

var contactFieldNames = map[string]ContactField{
	"name":     ContactFieldName,
	"relation": ContactFieldRelation,
	"phone":    ContactFieldPhone,
}

const medicinesPrefix = "medicines"

func Path(field Field) FieldPath {
	return FieldPath{Field: field}
}

func ContactPath(slot profiles.ContactSlot, field ContactField) FieldPath {
	return FieldPath{Field: FieldEmergencyContact, Slot: slot, ContactField: field}
}

func MedicinePath(index int) FieldPath {
	return FieldPath{Field: FieldMedicine, Index: index}
}

// ParseFieldPath maps the wire form of a path, e.g. "emergencyContact2.phone"
// or "medicines.0", to a FieldPath.
func ParseFieldPath(value string) (FieldPath, error) {
	if field, ok := fieldNames[value]; ok {
		return Path(field), nil
	}

	head, tail, ok := strings.Cut(value, ".")
	if ok {
		if slot, ok := contactSlotNames[head]; ok {
			if contactField, ok := contactFieldNames[tail]; ok {
				return ContactPath(slot, contactField), nil
			}
		}
		if head == medicinesPrefix {
			if index, err := strconv.Atoi(tail); err == nil && index >= 0 {
				return MedicinePath(index), nil
			}
		}
	}

	return FieldPath{}, errors.NewValidationError(value)
}

func (p FieldPath) String() string {
	switch p.Field {
	case FieldEmergencyContact:
		for slotName, slot := range contactSlotNames {
			if slot != p.Slot {
				continue
			}
			for fieldName, field := range contactFieldNames {
				if field == p.ContactField {
					return slotName + "." + fieldName
				}
			}
		}
	case FieldMedicine:
		return fmt.Sprintf("%s.%d", medicinesPrefix, p.Index)
	default:
		for name, field := range fieldNames {
			if field == p.Field {
				return name
			}
		}
	}
	return fmt.Sprintf("invalid(%d)", p.Field)
}

// Patch replaces the value at Path.
type Patch struct {
	Path  FieldPath
	Value string
}

// Apply returns a copy of draft with exactly one field replaced. The medicines
// of the returned draft never share storage with those of the input.
func Apply(draft profiles.Profile, patch Patch) (profiles.Profile, error) {
	updated := draft
	updated.Medicines = append(make([]string, 0, len(draft.Medicines)), draft.Medicines...)

	switch patch.Path.Field {
	case FieldName:
		updated.Name = patch.Value
	case FieldDateOfBirth:
		updated.DateOfBirth = patch.Value
	case FieldAge:
		updated.Age = patch.Value
	case FieldAddress:
		updated.Address = patch.Value
	case FieldPhone:
		updated.Phone = patch.Value
	case FieldDescription:
		updated.Description = patch.Value
	case FieldDoctor:
		updated.Doctor = patch.Value
	case FieldHospital:
		updated.Hospital = patch.Value
	case FieldEmergencyContact:
		contact := updated.EmergencyContact(patch.Path.Slot)
		if contact == nil {
			return draft, errors.NewValidationError(patch.Path.String())
		}
		switch patch.Path.ContactField {
		case ContactFieldName:
			contact.Name = patch.Value
		case ContactFieldRelation:
			contact.Relation = patch.Value
		case ContactFieldPhone:
			contact.Phone = patch.Value
		default:
			return draft, errors.NewValidationError(patch.Path.String())
		}
	case FieldMedicine:
		if patch.Path.Index < 0 || patch.Path.Index >= len(updated.Medicines) {
			return draft, errors.NewValidationError(patch.Path.String())
		}
		updated.Medicines[patch.Path.Index] = patch.Value
	default:
		return draft, errors.NewValidationError(patch.Path.String())
	}

	return updated, nil
}

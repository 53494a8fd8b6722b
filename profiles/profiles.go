package profiles

import (
	"context"
	"strings"
	"time"
)

//go:generate go tool mockgen -source=./profiles.go -destination=./test/mock_repository.go -package test

// Repository persists care profiles. Implementations must filter by owner on
// the server side and return profiles ordered by creation time, newest first.
type Repository interface {
	Create(ctx context.Context, profile Profile) (string, error)
	ListByOwner(ctx context.Context, ownerId string) ([]Profile, error)
}

type Service interface {
	Create(ctx context.Context, profile Profile) (string, error)
	ListByOwner(ctx context.Context, ownerId string) ([]Profile, error)
}

type Profile struct {
	Id                string           `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerId           string           `json:"ownerId" bson:"ownerId"`
	Name              string           `json:"name" bson:"name" validate:"notblank"`
	DateOfBirth       string           `json:"dateOfBirth" bson:"dateOfBirth" validate:"notblank"`
	Age               string           `json:"age" bson:"age" validate:"notblank"`
	Address           string           `json:"address" bson:"address" validate:"notblank"`
	Phone             string           `json:"phone" bson:"phone" validate:"notblank"`
	EmergencyContact1 EmergencyContact `json:"emergencyContact1" bson:"emergencyContact1"`
	EmergencyContact2 EmergencyContact `json:"emergencyContact2" bson:"emergencyContact2"`
	Description       string           `json:"description" bson:"description"`
	Doctor            string           `json:"doctor" bson:"doctor"`
	Hospital          string           `json:"hospital" bson:"hospital"`
	Medicines         []string         `json:"medicines" bson:"medicines"`
	CreatedAt         time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt" bson:"updatedAt"`
}

type EmergencyContact struct {
	Name     string `json:"name" bson:"name" validate:"notblank"`
	Relation string `json:"relation" bson:"relation" validate:"notblank"`
	Phone    string `json:"phone" bson:"phone" validate:"notblank"`
}

// IsBlank reports whether none of the contact fields carry a value.
func (e EmergencyContact) IsBlank() bool {
	return IsBlank(e.Name) && IsBlank(e.Relation) && IsBlank(e.Phone)
}

// ContactSlot addresses one of the two emergency contacts of a profile.
type ContactSlot int

const (
	ContactSlot1 ContactSlot = 1
	ContactSlot2 ContactSlot = 2
)

var ContactSlots = []ContactSlot{ContactSlot1, ContactSlot2}

func (c ContactSlot) Valid() bool {
	return c == ContactSlot1 || c == ContactSlot2
}

// EmergencyContact returns the contact stored in the given slot, or nil if the
// slot is out of range.
func (p *Profile) EmergencyContact(slot ContactSlot) *EmergencyContact {
	switch slot {
	case ContactSlot1:
		return &p.EmergencyContact1
	case ContactSlot2:
		return &p.EmergencyContact2
	}
	return nil
}

// New returns a blank profile with a single empty medicine slot.
func New() Profile {
	return Profile{
		Medicines: []string{""},
	}
}

func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// CleanMedicines returns a copy of medicines without blank entries. The result
// is never nil.
func CleanMedicines(medicines []string) []string {
	cleaned := make([]string, 0, len(medicines))
	for _, medicine := range medicines {
		if !IsBlank(medicine) {
			cleaned = append(cleaned, medicine)
		}
	}
	return cleaned
}

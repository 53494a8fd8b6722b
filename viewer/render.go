package viewer

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tidepool-org/careprofiles/profiles"
)

const createdAtLayout = "2006-01-02 15:04 MST"

// Render writes a plain text page for view. Optional profile fields are only
// printed when they carry a value.
func Render(w io.Writer, view View) error {
	r := renderer{
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
		w:       w,
	}
	return r.render(view)
}

type renderer struct {
	printer *message.Printer
	title   cases.Caser
	w       io.Writer
	err     error
}

func (r *renderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = r.printer.Fprintf(r.w, format, args...)
}

func (r *renderer) render(view View) error {
	switch {
	case view.State == StateIdle, view.State == StateLoading:
		r.printf("Loading…\n")
	case view.State == StateErrored:
		r.printf("Unable to load profiles: %v\n", view.Err)
		r.printf("Try again\n")
	case view.Empty():
		r.printf("No profiles found\n")
	default:
		r.printf("Saved Profiles (%d)\n", len(view.Profiles))
		for _, profile := range view.Profiles {
			r.printf("\n")
			r.card(profile)
		}
	}
	return r.err
}

func (r *renderer) card(profile profiles.Profile) {
	r.printf("%s\n", profile.Name)
	r.field("Date of birth", profile.DateOfBirth)
	r.field("Age", profile.Age)
	r.field("Phone", profile.Phone)
	r.field("Address", profile.Address)
	r.field("Doctor", profile.Doctor)
	r.field("Hospital", profile.Hospital)
	r.field("Description", profile.Description)

	if medicines := profiles.CleanMedicines(profile.Medicines); len(medicines) > 0 {
		r.printf("  Medicines (%d): %s\n", len(medicines), strings.Join(medicines, ", "))
	}

	for _, slot := range profiles.ContactSlots {
		contact := profile.EmergencyContact(slot)
		if profiles.IsBlank(contact.Name) {
			continue
		}
		line := strings.TrimSpace(contact.Name)
		if !profiles.IsBlank(contact.Relation) {
			line += " (" + r.title.String(strings.TrimSpace(contact.Relation)) + ")"
		}
		if !profiles.IsBlank(contact.Phone) {
			line += " " + strings.TrimSpace(contact.Phone)
		}
		r.printf("  Emergency contact %d: %s\n", int(slot), line)
	}

	if !profile.CreatedAt.IsZero() {
		r.printf("  Created: %s\n", profile.CreatedAt.In(time.UTC).Format(createdAtLayout))
	}
}

func (r *renderer) field(label string, value string) {
	if profiles.IsBlank(value) {
		return
	}
	r.printf("  %s: %s\n", label, strings.TrimSpace(value))
}

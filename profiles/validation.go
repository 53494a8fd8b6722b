package profiles

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	internalErrs "github.com/tidepool-org/careprofiles/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every required field of the profile carries a
// non-blank value. The returned error is a *errors.ValidationError naming the
// blank fields in document order.
func Validate(profile Profile) error {
	err := validate.Struct(profile)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fieldPath(fieldError.Namespace()))
	}
	return internalErrs.NewValidationError(fields...)
}

// fieldPath strips the root struct name from a validator namespace,
// e.g. "Profile.emergencyContact2.phone" becomes "emergencyContact2.phone".
func fieldPath(namespace string) string {
	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}
	return namespace
}

// Normalize returns the profile as it must be persisted: blank medicines are
// removed and the owner and both timestamps are stamped. The input is not
// modified.
func Normalize(profile Profile, ownerId string, now time.Time) Profile {
	profile.Medicines = CleanMedicines(profile.Medicines)
	profile.OwnerId = ownerId
	now = now.UTC().Truncate(time.Millisecond)
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return profile
}

// CheckPersistable guards the store boundary against profiles that were not
// produced by Normalize.
func CheckPersistable(profile Profile) error {
	if IsBlank(profile.OwnerId) {
		return errors.New("profile owner is missing")
	}
	if profile.CreatedAt.IsZero() {
		return errors.New("profile creation time is missing")
	}
	if !profile.UpdatedAt.Equal(profile.CreatedAt) {
		return errors.New("profile update time must match creation time")
	}
	return nil
}

package api

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/viewer"
)

// CreateProfile composes and commits a profile from a single request body.
func (h *Handler) CreateProfile(ec echo.Context, userId UserId) error {
	identity, err := requestIdentity(ec)
	if err != nil {
		return err
	}

	dto := ProfileInput{}
	if err := ec.Bind(&dto); err != nil {
		return errors.BadRequest
	}

	c := composer.New(auth.NewSession(identity), h.profiles, h.logger)
	for i := 1; i < len(dto.Medicines); i++ {
		if _, err := c.AddMedicineSlot(); err != nil {
			return err
		}
	}
	for _, patch := range NewPatches(dto) {
		if err := c.Apply(patch); err != nil {
			return err
		}
	}

	id, err := c.Commit(ec.Request().Context())
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, ProfileCreated{Id: id})
}

func (h *Handler) ListProfiles(ec echo.Context, userId UserId, params ListProfilesParams) error {
	identity, err := requestIdentity(ec)
	if err != nil {
		return err
	}

	// Services list on behalf of the user in the path, users only ever list
	// their own profiles.
	owner := *identity
	if identity.ServerAccess {
		owner = auth.Identity{SubjectId: userId, ServerAccess: true}
	}

	v := viewer.New(auth.NewSession(&owner), h.profiles, h.logger)
	activateErr := v.Activate(ec.Request().Context())
	view := v.View()

	if params.Format != nil && *params.Format == ListProfilesParamsFormatText {
		if view.State != viewer.StateErrored && activateErr != nil {
			return activateErr
		}

		buf := &bytes.Buffer{}
		if err := viewer.Render(buf, view); err != nil {
			return err
		}
		status := http.StatusOK
		if view.State == viewer.StateErrored {
			status = http.StatusServiceUnavailable
		}
		return ec.Blob(status, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
	}

	if activateErr != nil {
		return activateErr
	}
	return ec.JSON(http.StatusOK, NewProfileListDto(view.Profiles))
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/errors"
)

func (h *Handler) StartDraft(ec echo.Context) error {
	identity, err := requestIdentity(ec)
	if err != nil {
		return err
	}

	id, c := h.drafts.Start(*identity)
	return ec.JSON(http.StatusCreated, NewDraftDto(id, c))
}

func (h *Handler) GetDraft(ec echo.Context, draftId DraftId) error {
	c, err := h.getComposer(ec, draftId)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, NewDraftDto(draftId, c))
}

func (h *Handler) PatchDraft(ec echo.Context, draftId DraftId) error {
	c, err := h.getComposer(ec, draftId)
	if err != nil {
		return err
	}

	dto := FieldPatch{}
	if err := ec.Bind(&dto); err != nil {
		return errors.BadRequest
	}

	path, err := composer.ParseFieldPath(dto.Path)
	if err != nil {
		return err
	}
	if err := c.SetField(path, dto.Value); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, NewDraftDto(draftId, c))
}

func (h *Handler) AddDraftMedicine(ec echo.Context, draftId DraftId) error {
	c, err := h.getComposer(ec, draftId)
	if err != nil {
		return err
	}

	if _, err := c.AddMedicineSlot(); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, NewDraftDto(draftId, c))
}

func (h *Handler) CommitDraft(ec echo.Context, draftId DraftId) error {
	c, err := h.getComposer(ec, draftId)
	if err != nil {
		return err
	}

	id, err := c.Commit(ec.Request().Context())
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, ProfileCreated{Id: id})
}

func (h *Handler) DiscardDraft(ec echo.Context, draftId DraftId) error {
	identity, err := requestIdentity(ec)
	if err != nil {
		return err
	}

	if err := h.drafts.Discard(draftId, *identity); err != nil {
		return err
	}

	return ec.NoContent(http.StatusNoContent)
}

func (h *Handler) getComposer(ec echo.Context, draftId DraftId) (*composer.Composer, error) {
	identity, err := requestIdentity(ec)
	if err != nil {
		return nil, err
	}
	return h.drafts.Get(draftId, *identity)
}

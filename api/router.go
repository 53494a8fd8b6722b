package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

type ServerInterface interface {
	// (POST /v1/drafts)
	StartDraft(ctx echo.Context) error
	// (DELETE /v1/drafts/{draftId})
	DiscardDraft(ctx echo.Context, draftId DraftId) error
	// (GET /v1/drafts/{draftId})
	GetDraft(ctx echo.Context, draftId DraftId) error
	// (PATCH /v1/drafts/{draftId})
	PatchDraft(ctx echo.Context, draftId DraftId) error
	// (POST /v1/drafts/{draftId}/commit)
	CommitDraft(ctx echo.Context, draftId DraftId) error
	// (POST /v1/drafts/{draftId}/medicines)
	AddDraftMedicine(ctx echo.Context, draftId DraftId) error
	// (GET /v1/users/{userId}/profiles)
	ListProfiles(ctx echo.Context, userId UserId, params ListProfilesParams) error
	// (POST /v1/users/{userId}/profiles)
	CreateProfile(ctx echo.Context, userId UserId) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) StartDraft(ctx echo.Context) error {
	return w.Handler.StartDraft(ctx)
}

func (w *ServerInterfaceWrapper) DiscardDraft(ctx echo.Context) error {
	draftId, err := bindDraftId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DiscardDraft(ctx, draftId)
}

func (w *ServerInterfaceWrapper) GetDraft(ctx echo.Context) error {
	draftId, err := bindDraftId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetDraft(ctx, draftId)
}

func (w *ServerInterfaceWrapper) PatchDraft(ctx echo.Context) error {
	draftId, err := bindDraftId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PatchDraft(ctx, draftId)
}

func (w *ServerInterfaceWrapper) CommitDraft(ctx echo.Context) error {
	draftId, err := bindDraftId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CommitDraft(ctx, draftId)
}

func (w *ServerInterfaceWrapper) AddDraftMedicine(ctx echo.Context) error {
	draftId, err := bindDraftId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AddDraftMedicine(ctx, draftId)
}

func (w *ServerInterfaceWrapper) ListProfiles(ctx echo.Context) error {
	userId, err := bindUserId(ctx)
	if err != nil {
		return err
	}

	var params ListProfilesParams
	err = runtime.BindQueryParameter("form", true, false, "format", ctx.QueryParams(), &params.Format)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter format: %s", err))
	}

	return w.Handler.ListProfiles(ctx, userId, params)
}

func (w *ServerInterfaceWrapper) CreateProfile(ctx echo.Context) error {
	userId, err := bindUserId(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CreateProfile(ctx, userId)
}

func bindDraftId(ctx echo.Context) (DraftId, error) {
	var draftId DraftId
	err := runtime.BindStyledParameterWithLocation("simple", false, "draftId", runtime.ParamLocationPath, ctx.Param("draftId"), &draftId)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter draftId: %s", err))
	}
	return draftId, nil
}

func bindUserId(ctx echo.Context) (UserId, error) {
	var userId UserId
	err := runtime.BindStyledParameterWithLocation("simple", false, "userId", runtime.ParamLocationPath, ctx.Param("userId"), &userId)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter userId: %s", err))
	}
	return userId, nil
}

// EchoRouter is satisfied by both echo.Echo and echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST("/v1/drafts", wrapper.StartDraft)
	router.DELETE("/v1/drafts/:draftId", wrapper.DiscardDraft)
	router.GET("/v1/drafts/:draftId", wrapper.GetDraft)
	router.PATCH("/v1/drafts/:draftId", wrapper.PatchDraft)
	router.POST("/v1/drafts/:draftId/commit", wrapper.CommitDraft)
	router.POST("/v1/drafts/:draftId/medicines", wrapper.AddDraftMedicine)
	router.GET("/v1/users/:userId/profiles", wrapper.ListProfiles)
	router.POST("/v1/users/:userId/profiles", wrapper.CreateProfile)
}

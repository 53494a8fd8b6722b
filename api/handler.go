package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/composer"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

type Handler struct {
	drafts   *composer.Registry
	profiles profiles.Service
	logger   *zap.SugaredLogger
}

var _ ServerInterface = &Handler{}

type Params struct {
	fx.In

	Drafts   *composer.Registry
	Profiles profiles.Service
	Logger   *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		drafts:   p.Drafts,
		profiles: p.Profiles,
		logger:   p.Logger,
	}
}

func requestIdentity(ec echo.Context) (*auth.Identity, error) {
	identity := auth.GetIdentity(ec.Request().Context())
	if identity == nil {
		return nil, errors.ErrUnauthenticated
	}
	return identity, nil
}

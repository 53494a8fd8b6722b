package api

import (
	"github.com/brpaz/echozap"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	oapiMiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/authz"
	"github.com/tidepool-org/careprofiles/config"
	"github.com/tidepool-org/careprofiles/errors"
)

func NewServer(handler *Handler, healthCheck *HealthCheck, authorizer authz.RequestAuthorizer, authenticator auth.Authenticator, cfg *config.Config, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Do not validate servers in the open api spec
	swagger.Servers = nil

	// Skip auth, validation and logging for the readiness probe
	skipper := RouteSkipper([]string{"/ready"})
	authMiddleware := auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{
		Skipper: skipper,
	})
	requestValidator := oapiMiddleware.OapiRequestValidatorWithOptions(swagger, &oapiMiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: authorizer.Authorize,
		},
		Skipper: skipper,
	})
	corsMiddleware := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CorsAllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			auth.CareProfilesSessionTokenHeaderKey,
		},
	})

	e.Use(middleware.Recover())
	e.Use(skipMiddleware(skipper, echozap.ZapLogger(logger)))
	e.Use(corsMiddleware)
	e.Use(authMiddleware)
	e.Use(requestValidator)

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

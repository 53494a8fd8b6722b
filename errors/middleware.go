package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		_ = c.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: validation.Error(),
			Fields:  validation.Fields,
		})
		return
	}

	var storage *StorageError
	if errors.As(err, &storage) {
		c.Logger().Error(err)
		_ = c.JSON(http.StatusServiceUnavailable, errorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: "the profile store is unavailable, please try again",
		})
		return
	}

	e := HttpError{}
	if errors.As(err, &e) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(e.Code, err.Error()), c)
		return
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}

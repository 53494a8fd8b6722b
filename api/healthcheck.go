package api

import (
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

type HealthCheck struct {
	ready atomic.Bool
}

func NewHealthCheck() *HealthCheck {
	return &HealthCheck{}
}

func (h *HealthCheck) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *HealthCheck) IsReady() bool {
	return h.ready.Load()
}

// Readiness probe
func (h *HealthCheck) Ready(c echo.Context) error {
	if !h.IsReady() {
		return c.NoContent(http.StatusBadRequest)
	}

	return c.NoContent(http.StatusOK)
}

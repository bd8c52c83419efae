package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether dependency is reachable
type HealthCheck func(context.Context) error

type healthStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHTTPHandler is http handler for health endpoint
type HealthHTTPHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler(checks map[string]HealthCheck) *HealthHTTPHandler {
	return &HealthHTTPHandler{checks: checks}
}

// Health checks dependencies
// @Summary     Service health
// @Description Pings every dependency of the service
// @Tags        health
// @Produce     json
// @Success     200 {object} healthStatus
// @Failure     503 {object} healthStatus
// @Router      /health [get]
func (h *HealthHTTPHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	res := healthStatus{Status: "ok", Dependencies: make(map[string]string, len(h.checks))}
	code := http.StatusOK

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logrus.Errorf("health check %s failed - %v", name, err)
			res.Dependencies[name] = "unavailable"
			res.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		res.Dependencies[name] = "ok"
	}

	return c.JSON(code, &res)
}

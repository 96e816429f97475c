package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/logging"
)

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// ping checks the database; nil means always ready.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health/live", h.live)
	g.GET("/health/ready", h.ready)
}

func (h *HealthHandler) live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) ready(c echo.Context) error {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

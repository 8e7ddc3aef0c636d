package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/clientes_api/internal/db"
	"github.com/Skotchmaster/clientes_api/internal/logging"
)

type HealthHandler struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func (h *HealthHandler) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready reports 503 until the database answers a ping.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := db.Ping(ctx, h.DB, h.Timeout); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Base de datos no disponible")
	}
	return c.NoContent(http.StatusOK)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health отвечает, что сервис жив.
// GET /api/health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "domeda-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Healthz reports process liveness. It deliberately touches no
// dependencies so load balancers get an answer even when the database is
// down.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

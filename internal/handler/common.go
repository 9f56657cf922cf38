// Package handler contains the HTTP endpoints. Handlers bind the request,
// run the domain logic with a bounded context and translate errors into
// JSON responses; no business rules live here.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/middleware"
)

const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// authedUser reads the user id placed in the context by the JWT
// middleware. A missing id means the route was registered without the
// middleware, which is a wiring bug surfaced as 401.
func authedUser(c echo.Context) (uint64, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return uid, nil
}

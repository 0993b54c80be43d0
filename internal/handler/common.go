package handler // handler defines http handlers

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-shop/internal/database"
    "github.com/iliyamo/ticket-shop/internal/logging"
    "github.com/iliyamo/ticket-shop/internal/middleware"
)

// persistence returns the request's persistence context.  Routes are
// always mounted behind middleware.UnitOfWork, so nil means a wiring bug.
func persistence(c echo.Context) *database.Context {
    pc := middleware.Persistence(c)
    if pc == nil {
        panic("handler mounted without UnitOfWork middleware")
    }
    return pc
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// internalError logs err with the request's entry and answers 500 with msg.
func internalError(c echo.Context, err error, msg string) error {
    logging.FromContext(c.Request().Context()).WithError(err).Error(msg)
    return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg})
}

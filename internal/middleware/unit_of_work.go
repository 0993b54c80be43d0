package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-shop/internal/database"
    "github.com/iliyamo/ticket-shop/internal/logging"
)

const persistenceKey = "persistence"

// UnitOfWork opens one persistence context per request, exposes it via
// Persistence and closes it once the handler returns.
func UnitOfWork(reg *database.Registry) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            pc, err := reg.Persistence(c.Request().Context())
            if err != nil {
                logging.FromContext(c.Request().Context()).WithError(err).Error("open persistence context")
                return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
            }
            defer pc.Close()
            c.Set(persistenceKey, pc)
            return next(c)
        }
    }
}

// Persistence returns the context opened by UnitOfWork, or nil when the
// route is not wrapped by it.
func Persistence(c echo.Context) *database.Context {
    pc, _ := c.Get(persistenceKey).(*database.Context)
    return pc
}

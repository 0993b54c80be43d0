package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/ticket-shop/internal/logging"
)

// HeaderCorrelationID carries the correlation id in and out of the API.
const HeaderCorrelationID = "X-Correlation-ID"

// RequestLogger assigns a correlation id to every request, stores a
// logrus entry carrying it in the request context and logs the outcome.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            correlationID := req.Header.Get(HeaderCorrelationID)
            if correlationID == "" {
                correlationID = uuid.NewString()
            }
            c.Response().Header().Set(HeaderCorrelationID, correlationID)

            entry := logrus.WithFields(logrus.Fields{
                "correlation_id": correlationID,
                "method":         req.Method,
                "path":           req.URL.Path,
            })
            ctx := logging.ContextWithCorrelationID(req.Context(), correlationID)
            c.SetRequest(req.WithContext(logging.ToContext(ctx, entry)))

            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            entry.WithFields(logrus.Fields{
                "status":   c.Response().Status,
                "duration": time.Since(start).String(),
            }).Info("request handled")
            return nil
        }
    }
}

package middleware

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "ticketshop_http_requests_total",
        Help: "HTTP requests by method, route and status.",
    }, []string{"method", "route", "status"})

    httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
        Name:    "ticketshop_http_request_duration_seconds",
        Help:    "HTTP request latency by method and route.",
        Buckets: prometheus.DefBuckets,
    }, []string{"method", "route"})
)

// Metrics records request count and latency per route template.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)

            status := c.Response().Status
            if err != nil {
                var he *echo.HTTPError
                if errors.As(err, &he) {
                    status = he.Code
                } else {
                    status = http.StatusInternalServerError
                }
            }
            route := c.Path()
            httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
            httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
            return err
        }
    }
}

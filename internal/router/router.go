package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // metrics exposition

	"github.com/iliyamo/ticket-shop/internal/database"
	"github.com/iliyamo/ticket-shop/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/ticket-shop/internal/middleware" // per-request persistence context and response cache
)

// RegisterRoutes registers the operational endpoints: the health check used
// by load balancers and the prometheus scrape target.  Neither needs a
// persistence context of its own.
func RegisterRoutes(e *echo.Echo, reg *database.Registry) {
	e.GET("/healthz", handler.Health(reg))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterV1 registers the event and show API under /v1.  Reads pass the
// response cache first so that a hit never takes a database connection;
// every request that reaches a handler gets its own persistence context.
func RegisterV1(e *echo.Echo, reg *database.Registry, cache *middleware.ResponseCache, shows *handler.ShowHandler, events *handler.EventHandler) {
	g := e.Group("/v1", cache.Middleware(), middleware.UnitOfWork(reg))

	// ---- Events ----
	g.GET("/events", events.List)
	g.POST("/events", events.Create)
	g.GET("/events/:id", events.Get)
	g.GET("/events/:id/shows", shows.ListByEvent)

	// ---- Shows ----
	g.GET("/shows", shows.List)
	g.POST("/shows", shows.Create)
	g.GET("/shows/:id", shows.Get)
	g.PUT("/shows/:id", shows.Edit)
	g.DELETE("/shows/:id", shows.Delete)
}

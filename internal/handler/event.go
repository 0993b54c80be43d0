package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/ticket-shop/internal/logging"
    "github.com/iliyamo/ticket-shop/internal/model"
    "github.com/iliyamo/ticket-shop/internal/repository"
    "github.com/iliyamo/ticket-shop/internal/service"
)

// EventHandler serves the event endpoints.
type EventHandler struct {
    Cache service.CacheInvalidator // dropped after an event is created
}

// NewEventHandler constructs an EventHandler.  cache may be nil.
func NewEventHandler(cache service.CacheInvalidator) *EventHandler {
    return &EventHandler{Cache: cache}
}

// List handles GET /v1/events.
func (h *EventHandler) List(c echo.Context) error {
    events, err := repository.NewEventRepo(persistence(c)).ListAll(c.Request().Context())
    if err != nil {
        return internalError(c, err, "failed to load events")
    }
    return c.JSON(http.StatusOK, map[string]any{"items": events})
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    ev, err := repository.NewEventRepo(persistence(c)).GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "event not found"})
        }
        return internalError(c, err, "failed to load event")
    }
    return c.JSON(http.StatusOK, ev)
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
    var body struct {
        Name string `json:"name"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    ev := model.Event{Name: strings.TrimSpace(body.Name)}
    if ev.Name == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
    }
    ctx := c.Request().Context()
    if err := repository.NewEventRepo(persistence(c)).Create(ctx, &ev); err != nil {
        return internalError(c, err, "could not create event")
    }
    if h.Cache != nil {
        if err := h.Cache.Invalidate(ctx); err != nil {
            logging.FromContext(ctx).WithError(err).WithField("event_id", ev.ID).Warn("event cache invalidation failed")
        }
    }
    return c.JSON(http.StatusCreated, ev)
}

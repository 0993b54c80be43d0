package handler // handler package contains the show handlers

import (
    "net/http" // http defines status codes
    "strings"  // strings helps with trimming whitespace
    "time"     // time parses RFC3339 timestamps from clients

    "github.com/labstack/echo/v4" // echo provides the web context and JSON helpers
    "github.com/pkg/errors"

    "github.com/iliyamo/ticket-shop/internal/model"
    "github.com/iliyamo/ticket-shop/internal/repository"
    "github.com/iliyamo/ticket-shop/internal/service"
)

// ShowHandler serves the show endpoints.  A ShowService is built for each
// request around that request's persistence context.
type ShowHandler struct {
    Notifier service.ChangeNotifier   // told about every committed mutation
    Cache    service.CacheInvalidator // cleared after every committed mutation
}

// NewShowHandler constructs a ShowHandler.  Both hooks may be nil.
func NewShowHandler(notifier service.ChangeNotifier, cache service.CacheInvalidator) *ShowHandler {
    return &ShowHandler{Notifier: notifier, Cache: cache}
}

func (h *ShowHandler) shows(c echo.Context) service.ShowService {
    return service.NewShows(repository.NewShowRepo(persistence(c)), h.Notifier, h.Cache)
}

// showBody is the JSON accepted by create and edit.  StartsAt is RFC3339.
type showBody struct {
    EventID          uint64  `json:"event_id"`
    Name             string  `json:"name"`
    Description      *string `json:"description"`
    StartsAt         string  `json:"starts_at"`
    AvailableTickets uint32  `json:"available_tickets"`
    PriceCents       uint32  `json:"price_cents"`
}

// toShow validates the transport-level fields and converts the body.
// It returns a client-facing message on failure.
func (b showBody) toShow() (model.Show, string) {
    if b.EventID == 0 {
        return model.Show{}, "event_id is required"
    }
    name := strings.TrimSpace(b.Name)
    if name == "" {
        return model.Show{}, "name is required"
    }
    startsAt := strings.TrimSpace(b.StartsAt)
    if startsAt == "" {
        return model.Show{}, "starts_at is required"
    }
    t, err := time.Parse(time.RFC3339, startsAt)
    if err != nil {
        return model.Show{}, "invalid starts_at format"
    }
    return model.Show{
        EventID:          b.EventID,
        Name:             name,
        Description:      b.Description,
        StartsAt:         t.UTC().Format(model.TimeLayout),
        AvailableTickets: b.AvailableTickets,
        PriceCents:       b.PriceCents,
    }, ""
}

// eventExists reports whether the event is known.  When it returns false
// a response (404 or 500) has already been written and the error is the
// result of writing it.
func eventExists(c echo.Context, eventID uint64) (bool, error) {
    _, err := repository.NewEventRepo(persistence(c)).GetByID(c.Request().Context(), eventID)
    if err == nil {
        return true, nil
    }
    if errors.Is(err, repository.ErrEventNotFound) {
        return false, c.JSON(http.StatusNotFound, map[string]string{"error": "event not found"})
    }
    return false, internalError(c, err, "failed to verify event")
}

// List handles GET /v1/shows.
func (h *ShowHandler) List(c echo.Context) error {
    shows, err := h.shows(c).GetAll(c.Request().Context())
    if err != nil {
        return internalError(c, err, "failed to load shows")
    }
    return c.JSON(http.StatusOK, map[string]any{"items": shows})
}

// ListByEvent handles GET /v1/events/:id/shows.  An unknown event is a 404
// rather than an empty list.
func (h *ShowHandler) ListByEvent(c echo.Context) error {
    eventID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    if ok, err := eventExists(c, eventID); !ok {
        return err
    }
    shows, err := h.shows(c).GetAllByEvent(c.Request().Context(), eventID)
    if err != nil {
        return internalError(c, err, "failed to load shows")
    }
    return c.JSON(http.StatusOK, map[string]any{"items": shows})
}

// Get handles GET /v1/shows/:id.
func (h *ShowHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    show, err := h.shows(c).GetSingleOrDefault(c.Request().Context(), id)
    if err != nil {
        return internalError(c, err, "failed to load show")
    }
    if show == nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "show not found"})
    }
    return c.JSON(http.StatusOK, show)
}

// Create handles POST /v1/shows.
func (h *ShowHandler) Create(c echo.Context) error {
    var body showBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    show, msg := body.toShow()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
    }
    if ok, err := eventExists(c, show.EventID); !ok {
        return err
    }
    created, err := h.shows(c).Create(c.Request().Context(), show)
    if err != nil {
        if errors.Is(err, service.ErrInvalidShow) {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
        }
        return internalError(c, err, "could not create show")
    }
    return c.JSON(http.StatusCreated, created)
}

// Edit handles PUT /v1/shows/:id.  The body replaces every field.
func (h *ShowHandler) Edit(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    var body showBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    show, msg := body.toShow()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
    }
    if ok, err := eventExists(c, show.EventID); !ok {
        return err
    }
    edited, err := h.shows(c).Edit(c.Request().Context(), id, show)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrShowNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "show not found"})
        case errors.Is(err, service.ErrInvalidShow):
            return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
        }
        return internalError(c, err, "update failed")
    }
    return c.JSON(http.StatusOK, edited)
}

// Delete handles DELETE /v1/shows/:id and returns the removed show.
func (h *ShowHandler) Delete(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    deleted, err := h.shows(c).Delete(c.Request().Context(), &id)
    if err != nil {
        return internalError(c, err, "delete failed")
    }
    if deleted == nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "show not found"})
    }
    return c.JSON(http.StatusOK, deleted)
}

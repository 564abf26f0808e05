package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/format"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/store"
)

// EventHandler serves the event catalogue and the organizer's event
// management.
type EventHandler struct{ *Deps }

func NewEventHandler(d *Deps) *EventHandler { return &EventHandler{Deps: d} }

// eventView adds display strings to an event.
type eventView struct {
	model.Event
	PriceDisplay     string `json:"price_display"`
	EventDateDisplay string `json:"event_date_display"`
}

func viewEvent(e model.Event) eventView {
	return eventView{
		Event:            e,
		PriceDisplay:     format.Rupiah(e.Price),
		EventDateDisplay: format.DateID(e.EventDate.Time),
	}
}

func viewEvents(evs []model.Event) []eventView {
	out := make([]eventView, 0, len(evs))
	for _, e := range evs { // keep backend order
		out = append(out, viewEvent(e))
	}
	return out
}

// ListEvents handles GET /v1/events.
func (h *EventHandler) ListEvents(c echo.Context) error {
	s := store.NewEventStore(h.session(c))
	if err := s.LoadAll(c.Request().Context()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewEvents(s.State().Events))
}

// MyEvents handles GET /v1/my-events for organizers.
func (h *EventHandler) MyEvents(c echo.Context) error {
	s := store.NewEventStore(h.session(c))
	if err := s.LoadMine(c.Request().Context()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewEvents(s.State().Events))
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	s := store.NewEventStore(h.session(c))
	if err := s.Load(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewEvent(*s.State().Current))
}

// CreateEvent handles POST /v1/events.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var in model.EventInput // validated by the store
	if err := c.Bind(&in); err != nil {
		return badBody(c) // malformed body
	}
	e, err := store.NewEventStore(h.session(c)).Create(c.Request().Context(), in)
	if err != nil {
		return h.respondError(c, err)
	}
	h.invalidate(c) // catalogue changed, drop cached pages
	h.publish(c, queue.KindEventCreated, queue.EntityEvent, e.ID.String(), e.Title)
	return c.JSON(http.StatusCreated, viewEvent(*e))
}

// UpdateEvent handles PUT /v1/events/:id.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	var in model.EventInput // validated by the store
	if err := c.Bind(&in); err != nil {
		return badBody(c) // malformed body
	}
	e, err := store.NewEventStore(h.session(c)).Update(c.Request().Context(), id, in)
	if err != nil {
		return h.respondError(c, err)
	}
	h.invalidate(c) // catalogue changed, drop cached pages
	h.publish(c, queue.KindEventUpdated, queue.EntityEvent, id, e.Title)
	return c.JSON(http.StatusOK, viewEvent(*e))
}

// CancelEvent handles POST /v1/events/:id/cancel.  The event is kept and
// answered with cancelled=true and its cancellation time.
func (h *EventHandler) CancelEvent(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	e, err := store.NewEventStore(h.session(c)).Cancel(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	h.invalidate(c) // catalogue changed, drop cached pages
	h.publish(c, queue.KindEventCancelled, queue.EntityEvent, id, "")
	return c.JSON(http.StatusOK, viewEvent(*e))
}

// DeleteEvent handles DELETE /v1/events/:id (organizer or admin).
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	if err := store.NewEventStore(h.session(c)).Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	h.invalidate(c) // catalogue changed, drop cached pages
	h.publish(c, queue.KindEventDeleted, queue.EntityEvent, id, "")
	return c.NoContent(http.StatusNoContent) // deleted
}

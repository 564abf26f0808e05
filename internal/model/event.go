package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a ticketed event owned by an organizer.
//
// A cancelled event always has Cancelled=true and a non-zero
// CancellationTime.  The organizer cancel path never removes the event;
// only the separate delete operation does.
type Event struct {
	ID               ID              `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EventDate        Timestamp       `json:"eventDate"`
	Location         string          `json:"location"`
	Price            decimal.Decimal `json:"price"`
	OrganizerID      ID              `json:"organizerId"`
	OrganizerName    string          `json:"organizerName"`
	OrganizerRole    string          `json:"organizerRole"`
	Active           bool            `json:"active"`
	Cancelled        bool            `json:"cancelled"`
	CancellationTime Timestamp       `json:"cancellationTime"`
	CreatedAt        Timestamp       `json:"createdAt"`
	UpdatedAt        Timestamp       `json:"updatedAt"`
}

// MarkCancelled applies the soft-cancel invariant locally.  When the
// backend did not report a cancellation time, at is used.
func (e *Event) MarkCancelled(at time.Time) {
	e.Cancelled = true
	e.Active = false
	if e.CancellationTime.IsZero() {
		e.CancellationTime = Timestamp{Time: at.UTC()}
	}
}

// EventInput is the request body for creating or updating an event.
type EventInput struct {
	Title       string          `json:"title" validate:"required,trimmed_min=1,trimmed_max=150"`
	Description string          `json:"description" validate:"required,trimmed_min=1"`
	EventDate   string          `json:"eventDate" validate:"required,event_date"`
	Location    string          `json:"location" validate:"required,trimmed_min=1,trimmed_max=255"`
	Price       decimal.Decimal `json:"price" validate:"positive_decimal"`
}

// Package queue defines message payloads exchanged over the message broker
// and the consumer that persists them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// ActivityQueue is the durable queue carrying workflow activity.
const ActivityQueue = "ticketing.activity"

// Entity types referenced by activity events.
const (
	EntityReport      = "report"
	EntityEvent       = "event"
	EntityTransaction = "transaction"
)

// Activity kinds, one per mutating workflow action.
const (
	KindReportStatusChanged = "report.status_changed"
	KindReportCommented     = "report.commented"
	KindReportDeleted       = "report.deleted"
	KindEventCreated        = "event.created"
	KindEventUpdated        = "event.updated"
	KindEventCancelled      = "event.cancelled"
	KindEventDeleted        = "event.deleted"
	KindTicketPurchased     = "transaction.ticket_purchased"
	KindTopUp               = "transaction.top_up"
	KindTransactionFailed   = "transaction.marked_failed"
	KindTransactionDeleted  = "transaction.deleted"
)

// ActivityEvent is published after a workflow action succeeded on the
// backend.  It carries enough context for the audit log without another
// backend round trip.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ActorRole  string    `json:"actor_role"`
	ActorEmail string    `json:"actor_email"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivity stamps a fresh id and the current UTC time.
func NewActivity(kind, entityType, entityID string) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

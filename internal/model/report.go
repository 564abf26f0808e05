package model

// ReportStatus is the lifecycle state of a support report.  There are
// exactly three states; the backend accepts any-to-any transitions.
type ReportStatus string

const (
	ReportPending    ReportStatus = "PENDING"
	ReportOnProgress ReportStatus = "ON_PROGRESS"
	ReportResolved   ReportStatus = "RESOLVED"
)

// ReportStatuses lists the states in their natural workflow order.
var ReportStatuses = []ReportStatus{ReportPending, ReportOnProgress, ReportResolved}

// Valid reports whether s is one of the three known states.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportOnProgress, ReportResolved:
		return true
	}
	return false
}

// ReportCategory classifies what a report is about.
type ReportCategory string

const (
	CategoryPayment ReportCategory = "PAYMENT"
	CategoryTicket  ReportCategory = "TICKET"
	CategoryEvent   ReportCategory = "EVENT"
	CategoryOther   ReportCategory = "OTHER"
)

// Report is a support ticket raised by a user.  Everything except
// Status and Comments is immutable from the gateway's point of view.
//
// Fields:
//
//	ID          – opaque backend identifier.
//	Category    – PAYMENT, TICKET, EVENT or OTHER.
//	Status      – PENDING, ON_PROGRESS or RESOLVED.
//	Description – free text written by the reporter.
//	UserEmail   – reporter identity.
//	Comments    – append-only thread, oldest first.
//	CreatedAt   – set by the backend.
//	UpdatedAt   – bumped by the backend on status change or new comment.
type Report struct {
	ID          ID             `json:"id"`
	Category    ReportCategory `json:"category"`
	Status      ReportStatus   `json:"status"`
	Description string         `json:"description"`
	UserEmail   string         `json:"userEmail"`
	EventID     ID             `json:"eventId,omitempty"`
	Comments    []Comment      `json:"comments"`
	CreatedAt   Timestamp      `json:"createdAt"`
	UpdatedAt   Timestamp      `json:"updatedAt"`
}

// Comment is one message on a report thread.  Comments are created only
// through the add-comment operation and are never edited or deleted.
type Comment struct {
	ID             ID        `json:"id"`
	Message        string    `json:"message"`
	ResponderRole  string    `json:"responderRole"`
	ResponderEmail string    `json:"responderEmail"`
	CreatedAt      Timestamp `json:"createdAt"`
}

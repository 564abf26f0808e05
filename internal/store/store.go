// Package store holds the per-session state containers that sit between
// the presentation layer and the backend client.  Each store owns its
// own state and lock; no operation spans two stores atomically.
package store

import (
	"context"
	"errors"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

var (
	// ErrNoReport is returned by report operations before Load succeeded.
	ErrNoReport = errors.New("no report loaded")
	// ErrConfirmationRequired guards irreversible deletes.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrAdminOnly is returned when a non-admin scope tries an admin action.
	ErrAdminOnly = errors.New("operation requires admin role")
)

// ReportAPI is the slice of the backend client used by ReportStore.
type ReportAPI interface {
	GetReport(ctx context.Context, scope apiclient.Scope, id string) (*model.Report, error)
	AddComment(ctx context.Context, scope apiclient.Scope, id, message string) error
	UpdateReportStatus(ctx context.Context, scope apiclient.Scope, id string, status model.ReportStatus) error
	DeleteReport(ctx context.Context, id string) error
}

// TransactionAPI is the slice of the backend client used by
// TransactionStore and TopUpStore.
type TransactionAPI interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	MyTransactions(ctx context.Context) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	DeleteAllTransactions(ctx context.Context) error
	MarkTransactionFailed(ctx context.Context, id string) error
	PurchaseTicket(ctx context.Context, eventID string) (*model.Transaction, error)
	TopUpHistory(ctx context.Context) ([]model.Transaction, error)
	TopUp(ctx context.Context, amount int64) error
	Me(ctx context.Context) (*model.User, error)
}

// EventAPI is the slice of the backend client used by EventStore.
type EventAPI interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	MyEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, in model.EventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CancelEvent(ctx context.Context, id string) (*model.Event, error)
}

var (
	_ ReportAPI      = (*apiclient.Session)(nil)
	_ TransactionAPI = (*apiclient.Session)(nil)
	_ EventAPI       = (*apiclient.Session)(nil)
)

// failure splits err into the banner message and field errors stored on
// the state.
func failure(err error) (string, validation.Errors) {
	if fields, ok := validation.AsErrors(err); ok {
		return "", fields
	}
	return apiclient.Message(err), nil
}

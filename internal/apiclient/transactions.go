package apiclient

import (
	"context"
	"net/http"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// ListTransactions returns every transaction.  Admin only.
func (s *Session) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := s.do(ctx, "transaction.list", http.MethodGet, "/api/transactions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyTransactions returns the calling attendee's transactions.
func (s *Session) MyTransactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := s.do(ctx, "transaction.mine", http.MethodGet, "/api/transactions/my-transactions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAllTransactions clears the transaction table.  Admin only.
func (s *Session) DeleteAllTransactions(ctx context.Context) error {
	return s.do(ctx, "transaction.delete_all", http.MethodDelete, "/api/transactions", nil, nil, nil)
}

// DeleteTransaction removes one transaction.  Admin only.
func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	return s.do(ctx, "transaction.delete", http.MethodDelete, "/api/transactions/"+pathID(id), nil, nil, nil)
}

// MarkTransactionFailed forces a transaction to FAILED.  Admin only.
func (s *Session) MarkTransactionFailed(ctx context.Context, id string) error {
	return s.do(ctx, "transaction.mark_failed", http.MethodPatch, "/api/transactions/"+pathID(id)+"/failed", nil, nil, nil)
}

// PurchaseTicket buys one ticket for eventID with the attendee's balance.
// The created transaction is returned when the backend echoes it.
func (s *Session) PurchaseTicket(ctx context.Context, eventID string) (*model.Transaction, error) {
	var tx model.Transaction
	if err := s.doAck(ctx, "transaction.purchase", http.MethodPost, "/api/transactions/purchase/ticket/"+pathID(eventID), nil, &tx); err != nil {
		return nil, err
	}
	if tx.ID == "" {
		return nil, nil
	}
	return &tx, nil
}

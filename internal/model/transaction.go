package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxTopUp          TransactionType = "TOP_UP"
	TxTicketPurchase TransactionType = "TICKET_PURCHASE"
)

type TransactionStatus string

const (
	TxPending TransactionStatus = "PENDING"
	TxSuccess TransactionStatus = "SUCCESS"
	TxFailed  TransactionStatus = "FAILED"
)

// Transaction is a balance movement: a top-up credit or a ticket
// purchase debit.  PENDING resolves to SUCCESS or FAILED on the backend;
// an admin may additionally force SUCCESS to FAILED, which is terminal.
//
// The backend fills either Timestamp or CreatedAt depending on the
// endpoint; use When for ordering.
type Transaction struct {
	ID          ID                `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Timestamp   Timestamp         `json:"timestamp"`
	CreatedAt   Timestamp         `json:"createdAt"`
	EventID     ID                `json:"eventId,omitempty"`
	Description string            `json:"description,omitempty"`
	Username    string            `json:"username,omitempty"`
}

// When returns the creation moment of the transaction.
func (t Transaction) When() time.Time {
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt.Time
	}
	return t.Timestamp.Time
}

// TopUpRequest is the body of POST /api/topup.
type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"topup_amount"`
}

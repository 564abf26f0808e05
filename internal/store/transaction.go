package store

import (
	"context"
	"sync"

	"github.com/iliyamo/ticketing-gateway/internal/listing"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

// TransactionState is the cached transaction list plus the balance
// mirror.  Balance is only refreshed by LoadBalance and Purchase.
type TransactionState struct {
	Transactions []model.Transaction `json:"transactions"`
	Balance      int64               `json:"balance"`
	Error        string              `json:"error,omitempty"`
	FieldErrors  validation.Errors   `json:"field_errors,omitempty"`
}

// TransactionStore caches transactions for the admin and attendee pages.
// Admin deletes and mark-failed patch the cached list in place after the
// backend confirms; a purchase instead re-fetches both the list and the
// balance, since it touches both.
type TransactionStore struct {
	api TransactionAPI

	mu    sync.Mutex
	state TransactionState
}

func NewTransactionStore(api TransactionAPI) *TransactionStore {
	return &TransactionStore{api: api}
}

func (s *TransactionStore) State() TransactionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Transactions = append([]model.Transaction(nil), s.state.Transactions...)
	return st
}

func (s *TransactionStore) fail(err error) error {
	s.mu.Lock()
	s.state.Error, s.state.FieldErrors = failure(err)
	s.mu.Unlock()
	return err
}

func (s *TransactionStore) setList(txs []model.Transaction) {
	s.mu.Lock()
	s.state.Transactions = txs
	s.state.Error = ""
	s.state.FieldErrors = nil
	s.mu.Unlock()
}

// LoadAll fetches every transaction (admin view).
func (s *TransactionStore) LoadAll(ctx context.Context) error {
	txs, err := s.api.ListTransactions(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.setList(txs)
	return nil
}

// LoadMine fetches the caller's own transactions (attendee view).
func (s *TransactionStore) LoadMine(ctx context.Context) error {
	txs, err := s.api.MyTransactions(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.setList(txs)
	return nil
}

// LoadBalance mirrors the backend balance.
func (s *TransactionStore) LoadBalance(ctx context.Context) error {
	u, err := s.api.Me(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.Balance = int64(u.Balance)
	s.mu.Unlock()
	return nil
}

// Purchase buys a ticket for eventID, then re-fetches the caller's
// transactions and balance.  The returned transaction is nil when the
// backend does not echo it.
func (s *TransactionStore) Purchase(ctx context.Context, eventID string) (*model.Transaction, error) {
	tx, err := s.api.PurchaseTicket(ctx, eventID)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.LoadMine(ctx); err != nil {
		return tx, err
	}
	if err := s.LoadBalance(ctx); err != nil {
		return tx, err
	}
	return tx, nil
}

// Delete removes transaction id and drops it from the cached list.
func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.state.Transactions[:0:0]
	for _, tx := range s.state.Transactions {
		if tx.ID.String() != id {
			kept = append(kept, tx)
		}
	}
	s.state.Transactions = kept
	s.state.Error = ""
	s.mu.Unlock()
	return nil
}

// DeleteAll wipes every transaction on the backend.  confirmed must be
// true; the cached list is emptied on success.
func (s *TransactionStore) DeleteAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.api.DeleteAllTransactions(ctx); err != nil {
		return s.fail(err)
	}
	s.setList(nil)
	return nil
}

// MarkFailed forces transaction id to FAILED.  A cached transaction that
// is already FAILED is rejected locally.  The correction is one-way: the
// store never moves a transaction out of FAILED.
func (s *TransactionStore) MarkFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	for _, tx := range s.state.Transactions {
		if tx.ID.String() == id && tx.Status == model.TxFailed {
			s.mu.Unlock()
			return s.fail(validation.Errors{"status": "transaction is already marked as failed"})
		}
	}
	s.mu.Unlock()

	if err := s.api.MarkTransactionFailed(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	for i := range s.state.Transactions {
		if s.state.Transactions[i].ID.String() == id {
			s.state.Transactions[i].Status = model.TxFailed
		}
	}
	s.state.Error = ""
	s.mu.Unlock()
	return nil
}

// Query filters, sorts and paginates the cached list.
func (s *TransactionStore) Query(c listing.Criteria) listing.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listing.Apply(s.state.Transactions, c)
}

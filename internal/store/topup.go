package store

import (
	"context"
	"sync"

	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

type TopUpState struct {
	History     []model.Transaction `json:"history"`
	Balance     int64               `json:"balance"`
	Error       string              `json:"error,omitempty"`
	FieldErrors validation.Errors   `json:"field_errors,omitempty"`
}

// TopUpStore backs the balance page: top-up history, current balance
// and the top-up form.
type TopUpStore struct {
	api TransactionAPI

	mu    sync.Mutex
	state TopUpState
}

func NewTopUpStore(api TransactionAPI) *TopUpStore {
	return &TopUpStore{api: api}
}

func (s *TopUpStore) State() TopUpState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.History = append([]model.Transaction(nil), s.state.History...)
	return st
}

func (s *TopUpStore) fail(err error) error {
	s.mu.Lock()
	s.state.Error, s.state.FieldErrors = failure(err)
	s.mu.Unlock()
	return err
}

func (s *TopUpStore) LoadHistory(ctx context.Context) error {
	h, err := s.api.TopUpHistory(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.History = h
	s.state.Error = ""
	s.mu.Unlock()
	return nil
}

func (s *TopUpStore) LoadBalance(ctx context.Context) error {
	u, err := s.api.Me(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.Balance = int64(u.Balance)
	s.mu.Unlock()
	return nil
}

// TopUp validates amount, credits it and re-fetches history and balance.
func (s *TopUpStore) TopUp(ctx context.Context, amount int64) error {
	if err := validation.TopUpAmount(amount); err != nil {
		return s.fail(err)
	}
	if err := s.api.TopUp(ctx, amount); err != nil {
		return s.fail(err)
	}
	if err := s.LoadHistory(ctx); err != nil {
		return err
	}
	return s.LoadBalance(ctx)
}

package apiclient

import (
	"context"
	"net/http"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// TopUpHistory lists the attendee's top-up transactions.
func (s *Session) TopUpHistory(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := s.do(ctx, "topup.history", http.MethodGet, "/api/topup/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopUp credits amount rupiah to the attendee's balance.
func (s *Session) TopUp(ctx context.Context, amount int64) error {
	return s.do(ctx, "topup.create", http.MethodPost, "/api/topup", nil, model.TopUpRequest{Amount: amount}, nil)
}

// Me returns the authenticated user, including the current balance.
func (s *Session) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := s.do(ctx, "auth.me", http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

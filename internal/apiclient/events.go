package apiclient

import (
	"context"
	"net/http"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

func (s *Session) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := s.do(ctx, "event.list", http.MethodGet, "/api/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyEvents lists the events owned by the calling organizer.
func (s *Session) MyEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := s.do(ctx, "event.mine", http.MethodGet, "/api/events/my-events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := s.do(ctx, "event.get", http.MethodGet, "/api/events/"+pathID(id), nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Session) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	var e model.Event
	if err := s.do(ctx, "event.create", http.MethodPost, "/api/events", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Session) UpdateEvent(ctx context.Context, id string, in model.EventInput) (*model.Event, error) {
	var e model.Event
	if err := s.do(ctx, "event.update", http.MethodPut, "/api/events/"+pathID(id), nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent hard-deletes an event.
func (s *Session) DeleteEvent(ctx context.Context, id string) error {
	return s.do(ctx, "event.delete", http.MethodDelete, "/api/events/"+pathID(id), nil, nil, nil)
}

// CancelEvent soft-cancels an event.  The backend may answer 204, in
// which case the returned event is nil.
func (s *Session) CancelEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := s.doAck(ctx, "event.cancel", http.MethodDelete, "/api/events/cancel/"+pathID(id), nil, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, nil
	}
	return &e, nil
}

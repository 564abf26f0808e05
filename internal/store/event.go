package store

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

type EventState struct {
	Events      []model.Event     `json:"events"`
	Current     *model.Event      `json:"current,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors validation.Errors `json:"field_errors,omitempty"`
}

// EventStore caches event lists.  Mutations patch the cached list with
// the backend's answer instead of re-fetching it.
type EventStore struct {
	api EventAPI
	now func() time.Time

	mu    sync.Mutex
	state EventState
}

func NewEventStore(api EventAPI) *EventStore {
	return &EventStore{api: api, now: time.Now}
}

func (s *EventStore) State() EventState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Events = append([]model.Event(nil), s.state.Events...)
	return st
}

func (s *EventStore) fail(err error) error {
	s.mu.Lock()
	s.state.Error, s.state.FieldErrors = failure(err)
	s.mu.Unlock()
	return err
}

func (s *EventStore) ok() {
	s.state.Error = ""
	s.state.FieldErrors = nil
}

func (s *EventStore) LoadAll(ctx context.Context) error {
	evs, err := s.api.ListEvents(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.Events = evs
	s.ok()
	s.mu.Unlock()
	return nil
}

// LoadMine fetches the organizer's own events.
func (s *EventStore) LoadMine(ctx context.Context) error {
	evs, err := s.api.MyEvents(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.Events = evs
	s.ok()
	s.mu.Unlock()
	return nil
}

func (s *EventStore) Load(ctx context.Context, id string) error {
	e, err := s.api.GetEvent(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.state.Current = e
	s.ok()
	s.mu.Unlock()
	return nil
}

// Create validates in, creates the event and appends it locally.
func (s *EventStore) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if err := validation.Struct(in); err != nil {
		return nil, s.fail(err)
	}
	e, err := s.api.CreateEvent(ctx, in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.state.Events = append(s.state.Events, *e)
	s.state.Current = e
	s.ok()
	s.mu.Unlock()
	return e, nil
}

// Update validates in, updates event id and replaces the cached copy.
func (s *EventStore) Update(ctx context.Context, id string, in model.EventInput) (*model.Event, error) {
	if err := validation.Struct(in); err != nil {
		return nil, s.fail(err)
	}
	e, err := s.api.UpdateEvent(ctx, id, in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.replace(id, func(old *model.Event) { *old = *e })
	s.state.Current = e
	s.ok()
	s.mu.Unlock()
	return e, nil
}

// Delete hard-deletes event id and drops it from the cache.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.state.Events[:0:0]
	for _, e := range s.state.Events {
		if e.ID.String() != id {
			kept = append(kept, e)
		}
	}
	s.state.Events = kept
	if s.state.Current != nil && s.state.Current.ID.String() == id {
		s.state.Current = nil
	}
	s.ok()
	s.mu.Unlock()
	return nil
}

// Cancel soft-cancels event id.  The cached entry stays in the list,
// marked cancelled with a cancellation time: the backend's when it sends
// one, otherwise the local clock.
func (s *EventStore) Cancel(ctx context.Context, id string) (*model.Event, error) {
	updated, err := s.api.CancelEvent(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	var result *model.Event
	s.replace(id, func(old *model.Event) {
		if updated != nil {
			*old = *updated
		}
		old.MarkCancelled(now)
		cp := *old
		result = &cp
	})
	if result == nil {
		// not cached; build the result from the backend answer alone
		e := model.Event{ID: model.ID(id)}
		if updated != nil {
			e = *updated
		}
		e.MarkCancelled(now)
		result = &e
	}
	if s.state.Current != nil && s.state.Current.ID.String() == id {
		cp := *result
		s.state.Current = &cp
	}
	s.ok()
	return result, nil
}

// replace applies fn to the cached event with the given id.  Callers
// hold s.mu.
func (s *EventStore) replace(id string, fn func(*model.Event)) {
	for i := range s.state.Events {
		if s.state.Events[i].ID.String() == id {
			fn(&s.state.Events[i])
			return
		}
	}
}

package store

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

// ReportState is what the report page renders.
type ReportState struct {
	Report      *model.Report     `json:"report"`
	Error       string            `json:"error,omitempty"`
	FieldErrors validation.Errors `json:"field_errors,omitempty"`
	Loading     bool              `json:"loading"`
	Deleted     bool              `json:"deleted,omitempty"`
}

// ReportStore drives the status/comment workflow of one report.
//
// Nothing is ever patched locally: after a successful status change or
// comment the whole report is fetched again, and a failed call leaves
// the previous report untouched.
type ReportStore struct {
	api   ReportAPI
	scope apiclient.Scope

	mu       sync.Mutex
	selected string
	state    ReportState
}

func NewReportStore(api ReportAPI, scope apiclient.Scope) *ReportStore {
	return &ReportStore{api: api, scope: scope}
}

// State returns a copy of the current state.
func (s *ReportStore) State() ReportState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ReportStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.FieldErrors = nil
	s.mu.Unlock()
}

func (s *ReportStore) fail(err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error, s.state.FieldErrors = failure(err)
	s.mu.Unlock()
	return err
}

func (s *ReportStore) currentID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return "", ErrNoReport
	}
	return s.selected, nil
}

// Select makes id the target of later operations without fetching it.
// The gateway uses it when a request names the report in its path.
func (s *ReportStore) Select(id string) {
	s.mu.Lock()
	s.selected = strings.TrimSpace(id)
	s.mu.Unlock()
}

// Load fetches report id and selects it.  On failure the error is
// recorded and both the previously held report and the selection are
// kept, so later writes still target the report on display.
func (s *ReportStore) Load(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNoReport
	}
	s.begin()
	return s.load(ctx, id)
}

func (s *ReportStore) load(ctx context.Context, id string) error {
	r, err := s.api.GetReport(ctx, s.scope, id)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.selected = id
	s.state = ReportState{Report: r}
	s.mu.Unlock()
	return nil
}

// UpdateStatus sets the loaded report to status and re-fetches it.  The
// current status is not compared: setting the same status again still
// issues the PATCH and the re-fetch.
func (s *ReportStore) UpdateStatus(ctx context.Context, status model.ReportStatus) error {
	id, err := s.currentID()
	if err != nil {
		return err
	}
	if !status.Valid() {
		return s.fail(validation.Errors{"status": "status must be one of PENDING, ON_PROGRESS, RESOLVED"})
	}
	s.begin()
	if err := s.api.UpdateReportStatus(ctx, s.scope, id, status); err != nil {
		return s.fail(err)
	}
	return s.load(ctx, id)
}

// AddComment validates message, posts it and re-fetches the report.  An
// invalid message is rejected without any backend call.
func (s *ReportStore) AddComment(ctx context.Context, message string) error {
	id, err := s.currentID()
	if err != nil {
		return err
	}
	if err := validation.Comment(message); err != nil {
		return s.fail(err)
	}
	s.begin()
	if err := s.api.AddComment(ctx, s.scope, id, strings.TrimSpace(message)); err != nil {
		return s.fail(err)
	}
	return s.load(ctx, id)
}

// Delete removes the loaded report.  Only the admin scope may delete and
// confirmed must be true; on success the store no longer holds a report.
func (s *ReportStore) Delete(ctx context.Context, confirmed bool) error {
	if s.scope != apiclient.ScopeAdmin {
		return ErrAdminOnly
	}
	id, err := s.currentID()
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	s.begin()
	if err := s.api.DeleteReport(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.selected = ""
	s.state = ReportState{Deleted: true}
	s.mu.Unlock()
	return nil
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// Scope selects the admin or organizer flavour of the report endpoints.
// The two differ in path prefix only; which reports an organizer may see
// is enforced by the backend.
type Scope string

const (
	ScopeAdmin     Scope = "admin"
	ScopeOrganizer Scope = "organizer"
)

func (s Scope) prefix() string {
	if s == ScopeOrganizer {
		return "/api/organizer/reports/"
	}
	return "/api/admin/reports/"
}

// GetReport fetches one report with its full comment thread.
func (s *Session) GetReport(ctx context.Context, scope Scope, id string) (*model.Report, error) {
	var r model.Report
	if err := s.do(ctx, "report.get", http.MethodGet, scope.prefix()+pathID(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddComment posts a message on a report.  The response body is ignored;
// callers re-fetch the report.
func (s *Session) AddComment(ctx context.Context, scope Scope, id, message string) error {
	body := map[string]string{"message": message}
	return s.do(ctx, "report.comment", http.MethodPost, scope.prefix()+pathID(id)+"/comments", nil, body, nil)
}

// UpdateReportStatus issues PATCH .../status?status=<status>.
func (s *Session) UpdateReportStatus(ctx context.Context, scope Scope, id string, status model.ReportStatus) error {
	q := url.Values{"status": {string(status)}}
	return s.do(ctx, "report.status", http.MethodPatch, scope.prefix()+pathID(id)+"/status", q, nil, nil)
}

// DeleteReport removes a report.  Only the admin endpoint exists.
func (s *Session) DeleteReport(ctx context.Context, id string) error {
	return s.do(ctx, "report.delete", http.MethodDelete, ScopeAdmin.prefix()+pathID(id), nil, nil, nil)
}

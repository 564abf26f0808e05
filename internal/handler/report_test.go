package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticketing-gateway/internal/queue"
)

func report(status string) string {
	return `{"id":"r1","category":"PAYMENT","status":"` + status + `","description":"double charge","userEmail":"budi@example.com","comments":[]}`
}

func TestReport_UpdateStatusRefetches(t *testing.T) {
	g := newGateway(t)
	g.backend.on("PATCH /api/admin/reports/r1/status", http.StatusOK, "")
	g.backend.on("GET /api/admin/reports/r1", http.StatusOK, report("RESOLVED"))

	rec := g.do(t, "ADMIN", http.MethodPatch, "/v1/admin/reports/r1/status?status=resolved", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "RESOLVED", decode(t, rec)["status"])
	assert.Equal(t, []string{
		"PATCH /api/admin/reports/r1/status?status=RESOLVED",
		"GET /api/admin/reports/r1",
	}, g.backend.called())
	assert.Equal(t, []string{queue.KindReportStatusChanged}, g.events.kinds())
}

func TestReport_OrganizerScope(t *testing.T) {
	g := newGateway(t)
	g.backend.on("PATCH /api/organizer/reports/r1/status", http.StatusOK, "")
	g.backend.on("GET /api/organizer/reports/r1", http.StatusOK, report("ON_PROGRESS"))

	rec := g.do(t, "ORGANIZER", http.MethodPatch, "/v1/organizer/reports/r1/status", `{"status":"ON_PROGRESS"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PATCH /api/organizer/reports/r1/status?status=ON_PROGRESS", g.backend.called()[0])
}

func TestReport_UnknownStatusIsValidationError(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, "ADMIN", http.MethodPatch, "/v1/admin/reports/r1/status?status=CLOSED", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, g.backend.called())
}

func TestReport_RoleGate(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, "ORGANIZER", http.MethodDelete, "/v1/admin/reports/r1?confirm=true", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = g.do(t, "", http.MethodGet, "/v1/admin/reports/r1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", decode(t, rec)["redirect"])
	assert.Empty(t, g.backend.called())
}

func TestReport_DeleteNeedsConfirmation(t *testing.T) {
	g := newGateway(t)
	g.backend.on("DELETE /api/admin/reports/r1", http.StatusNoContent, "")

	rec := g.do(t, "ADMIN", http.MethodDelete, "/v1/admin/reports/r1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "confirmation_required", decode(t, rec)["error"])
	assert.Empty(t, g.backend.called())

	rec = g.do(t, "ADMIN", http.MethodDelete, "/v1/admin/reports/r1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"DELETE /api/admin/reports/r1"}, g.backend.called())
	assert.Equal(t, []string{queue.KindReportDeleted}, g.events.kinds())
}

func TestReport_CommentValidation(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, "ADMIN", http.MethodPost, "/v1/admin/reports/r1/comments", `{"message":"  ok  "}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields, ok := decode(t, rec)["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "message")
	assert.Empty(t, g.backend.called())
}

func TestReport_CommentPostsTrimmedMessage(t *testing.T) {
	g := newGateway(t)
	g.backend.on("POST /api/admin/reports/r1/comments", http.StatusCreated, `{"id":"c1"}`)
	g.backend.on("GET /api/admin/reports/r1", http.StatusOK, report("PENDING"))

	rec := g.do(t, "ADMIN", http.MethodPost, "/v1/admin/reports/r1/comments", `{"message":"  refund issued  "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"refund issued"}`, g.backend.body("POST /api/admin/reports/r1/comments"))
	assert.Equal(t, []string{"POST /api/admin/reports/r1/comments", "GET /api/admin/reports/r1"}, g.backend.called())
}

func TestReport_BackendErrorsAreMapped(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   int
		msg    string
	}{
		{"forbidden", http.StatusForbidden, `{"message":"Not your report"}`, http.StatusForbidden, "Not your report"},
		{"expired", http.StatusUnauthorized, ``, http.StatusUnauthorized, "request failed with status 401 Unauthorized"},
		{"missing", http.StatusNotFound, `Report not found`, http.StatusNotFound, "Report not found"},
		{"server", http.StatusInternalServerError, `boom`, http.StatusBadGateway, "boom"},
		{"conflict", http.StatusConflict, `{"message":"Report already resolved"}`, http.StatusConflict, "Report already resolved"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(t)
			g.backend.on("GET /api/admin/reports/r1", tc.status, tc.body)
			rec := g.do(t, "ADMIN", http.MethodGet, "/v1/admin/reports/r1", "")
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.msg, decode(t, rec)["message"])
		})
	}
}

func TestReport_FailedStatusChangePublishesNothing(t *testing.T) {
	g := newGateway(t)
	g.backend.on("PATCH /api/admin/reports/r1/status", http.StatusBadRequest, `{"message":"Invalid transition"}`)

	rec := g.do(t, "ADMIN", http.MethodPatch, "/v1/admin/reports/r1/status?status=PENDING", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid transition", decode(t, rec)["message"])
	assert.Empty(t, g.events.kinds())
}

package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticketing-gateway/internal/queue"
)

const txList = `[
 {"id":1,"type":"TOP_UP","amount":150000,"status":"SUCCESS","createdAt":"2026-10-01T10:00:00Z","username":"budi"},
 {"id":2,"type":"TICKET_PURCHASE","amount":75000,"status":"FAILED","createdAt":"2026-10-02T10:00:00Z","username":"sari"},
 {"id":3,"type":"TOP_UP","amount":20000,"status":"SUCCESS","createdAt":"2026-10-03T10:00:00Z","username":"budi"}
]`

func TestTransactions_AdminListFiltersAndFormats(t *testing.T) {
	g := newGateway(t)
	g.backend.on("GET /api/transactions", http.StatusOK, txList)

	rec := g.do(t, "ADMIN", http.MethodGet, "/v1/admin/transactions?status=success&sort=amount_low", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["total_items"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 1, body["total_pages"])

	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "3", first["id"])
	assert.Equal(t, "Rp 20.000", first["amount_display"])
	assert.Equal(t, "Sabtu, 3 Oktober 2026 17.00", first["created_at_display"])
}

func TestTransactions_SearchAndOutOfRangePage(t *testing.T) {
	g := newGateway(t)
	g.backend.on("GET /api/transactions", http.StatusOK, txList)

	rec := g.do(t, "ADMIN", http.MethodGet, "/v1/admin/transactions?q=SARI&page=9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["total_items"])
	assert.EqualValues(t, 1, body["page"])
}

func TestTransactions_MarkFailedRefusesFailed(t *testing.T) {
	g := newGateway(t)
	g.backend.on("GET /api/transactions", http.StatusOK, txList)

	rec := g.do(t, "ADMIN", http.MethodPatch, "/v1/admin/transactions/2/failed", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"GET /api/transactions"}, g.backend.called())
	assert.Empty(t, g.events.kinds())
}

func TestTransactions_MarkFailed(t *testing.T) {
	g := newGateway(t)
	g.backend.on("GET /api/transactions", http.StatusOK, txList)
	g.backend.on("PATCH /api/transactions/1/failed", http.StatusOK, "")

	rec := g.do(t, "ADMIN", http.MethodPatch, "/v1/admin/transactions/1/failed", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "FAILED", decode(t, rec)["status"])
	assert.Equal(t, []string{queue.KindTransactionFailed}, g.events.kinds())
}

func TestTransactions_DeleteOneAndAll(t *testing.T) {
	g := newGateway(t)
	g.backend.on("DELETE /api/transactions/1", http.StatusNoContent, "")
	g.backend.on("DELETE /api/transactions", http.StatusNoContent, "")

	rec := g.do(t, "ADMIN", http.MethodDelete, "/v1/admin/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = g.do(t, "ADMIN", http.MethodDelete, "/v1/admin/transactions", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(t, "ADMIN", http.MethodDelete, "/v1/admin/transactions?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"DELETE /api/transactions/1", "DELETE /api/transactions"}, g.backend.called())
}

func TestTransactions_PurchaseRefreshesHistoryAndBalance(t *testing.T) {
	g := newGateway(t)
	g.backend.on("POST /api/transactions/purchase/ticket/e1", http.StatusOK, "Ticket purchased successfully")
	g.backend.on("GET /api/transactions/my-transactions", http.StatusOK, txList)
	g.backend.on("GET /api/auth/me", http.StatusOK, `{"id":42,"username":"att","role":"ATTENDEE","balance":50000}`)

	rec := g.do(t, "ATTENDEE", http.MethodPost, "/v1/events/e1/purchase", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.EqualValues(t, 50000, body["balance"])
	assert.Equal(t, "Rp 50.000", body["balance_display"])
	assert.NotContains(t, body, "transaction")
	assert.Equal(t, []string{
		"POST /api/transactions/purchase/ticket/e1",
		"GET /api/transactions/my-transactions",
		"GET /api/auth/me",
	}, g.backend.called())
}

func TestTransactions_PurchaseInsufficientBalance(t *testing.T) {
	g := newGateway(t)
	g.backend.on("POST /api/transactions/purchase/ticket/e1", http.StatusBadRequest, `{"message":"Insufficient balance"}`)

	rec := g.do(t, "ATTENDEE", http.MethodPost, "/v1/events/e1/purchase", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient balance", decode(t, rec)["message"])
	assert.Len(t, g.backend.called(), 1)
}

func TestTransactions_AttendeeCannotReachAdminConsole(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, "ATTENDEE", http.MethodGet, "/v1/admin/transactions", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

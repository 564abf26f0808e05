package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/format"
	"github.com/iliyamo/ticketing-gateway/internal/listing"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/store"
)

// TransactionHandler serves the admin transaction console and the
// attendee purchase history.
type TransactionHandler struct{ *Deps }

func NewTransactionHandler(d *Deps) *TransactionHandler { return &TransactionHandler{Deps: d} }

type txView struct {
	model.Transaction
	AmountDisplay    string `json:"amount_display"`
	CreatedAtDisplay string `json:"created_at_display"`
}

func viewTx(tx model.Transaction) txView {
	return txView{
		Transaction:      tx,
		AmountDisplay:    format.Rupiah(tx.Amount),
		CreatedAtDisplay: format.DateID(tx.When()),
	}
}

type txPage struct {
	Items      []txView `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	TotalItems int      `json:"total_items"`
}

func viewPage(p listing.Page) txPage {
	items := make([]txView, 0, len(p.Items))
	for _, tx := range p.Items {
		items = append(items, viewTx(tx))
	}
	return txPage{Items: items, Page: p.Page, TotalPages: p.TotalPages, TotalItems: p.TotalItems}
}

// criteria reads status, type, q, sort and page from the query string.
func criteria(c echo.Context) listing.Criteria {
	page, err := strconv.Atoi(c.QueryParam("page")) // page is 1-based
	if err != nil || page < 1 {
		page = 1 // missing or invalid page starts at the first
	}
	return listing.Criteria{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Type:   strings.TrimSpace(c.QueryParam("type")),
		Search: c.QueryParam("q"), // trimmed and lower-cased by listing
		Sort:   strings.TrimSpace(c.QueryParam("sort")),
		Page:   page,
	}
}

// ListAll handles GET /v1/admin/transactions.
func (h *TransactionHandler) ListAll(c echo.Context) error {
	s := store.NewTransactionStore(h.session(c))
	if err := s.LoadAll(c.Request().Context()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewPage(s.Query(criteria(c)))) // filter, sort and paginate in memory
}

// ListMine handles GET /v1/transactions for attendees.
func (h *TransactionHandler) ListMine(c echo.Context) error {
	s := store.NewTransactionStore(h.session(c))
	if err := s.LoadMine(c.Request().Context()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewPage(s.Query(criteria(c)))) // filter, sort and paginate in memory
}

// Delete handles DELETE /v1/admin/transactions/:id.
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	if err := store.NewTransactionStore(h.session(c)).Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindTransactionDeleted, queue.EntityTransaction, id, "")
	return c.NoContent(http.StatusNoContent) // deleted
}

// DeleteAll handles DELETE /v1/admin/transactions?confirm=true.
func (h *TransactionHandler) DeleteAll(c echo.Context) error {
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm")) // anything but true means not confirmed
	if err := store.NewTransactionStore(h.session(c)).DeleteAll(c.Request().Context(), confirmed); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindTransactionDeleted, queue.EntityTransaction, "*", "all")
	return c.NoContent(http.StatusNoContent) // deleted
}

// MarkFailed handles PATCH /v1/admin/transactions/:id/failed.  The list
// is loaded first so a transaction already FAILED is refused without a
// backend write.
func (h *TransactionHandler) MarkFailed(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	ctx := c.Request().Context()
	s := store.NewTransactionStore(h.session(c))
	if err := s.LoadAll(ctx); err != nil { // need current statuses to refuse FAILED locally
		return h.respondError(c, err)
	}
	if err := s.MarkFailed(ctx, id); err != nil {
		return h.respondError(c, err)
	}
	for _, tx := range s.State().Transactions { // answer with the patched row
		if tx.ID.String() == id {
			h.publish(c, queue.KindTransactionFailed, queue.EntityTransaction, id, string(tx.Status))
			return c.JSON(http.StatusOK, viewTx(tx))
		}
	}
	h.publish(c, queue.KindTransactionFailed, queue.EntityTransaction, id, string(model.TxFailed))
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.TxFailed})
}

// Purchase handles POST /v1/events/:id/purchase for attendees.  The answer
// carries the refreshed history page and balance.
func (h *TransactionHandler) Purchase(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	s := store.NewTransactionStore(h.session(c))
	tx, err := s.Purchase(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	txID := id // fall back to the event id when the backend sends no body
	if tx != nil && tx.ID != "" {
		txID = tx.ID.String()
	}
	h.publish(c, queue.KindTicketPurchased, queue.EntityTransaction, txID, "event "+id)

	st := s.State()
	resp := echo.Map{
		"transactions":    viewPage(s.Query(listing.Criteria{Page: 1})),
		"balance":         st.Balance,
		"balance_display": format.RupiahInt(st.Balance),
	}
	if tx != nil {
		resp["transaction"] = viewTx(*tx)
	}
	return c.JSON(http.StatusCreated, resp)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/format"
	"github.com/iliyamo/ticketing-gateway/internal/middleware"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/store"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

// TopUpHandler serves the attendee balance page.
type TopUpHandler struct{ *Deps }

func NewTopUpHandler(d *Deps) *TopUpHandler { return &TopUpHandler{Deps: d} }

func topUpBody(st store.TopUpState) echo.Map {
	history := make([]txView, 0, len(st.History)) // empty slice encodes as []
	for _, tx := range st.History {
		history = append(history, viewTx(tx))
	}
	return echo.Map{
		"history":         history,
		"balance":         st.Balance,
		"balance_display": format.RupiahInt(st.Balance),
		"presets":         validation.TopUpPresets, // quick-pick amounts
		"min":             validation.MinTopUp,
		"max":             validation.MaxTopUp,
	}
}

// History handles GET /v1/topup/history.
func (h *TopUpHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	s := store.NewTopUpStore(h.session(c))
	if err := s.LoadHistory(ctx); err != nil {
		return h.respondError(c, err)
	}
	if err := s.LoadBalance(ctx); err != nil { // history and balance come from different endpoints
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, topUpBody(s.State()))
}

type topUpReq struct {
	Amount int64 `json:"amount"`
}

// TopUp handles POST /v1/topup.  Amounts outside the allowed range are
// rejected with 422 before the backend is called.
func (h *TopUpHandler) TopUp(c echo.Context) error {
	var req topUpReq
	if err := c.Bind(&req); err != nil { // decode JSON body
		return badBody(c) // malformed body
	}
	s := store.NewTopUpStore(h.session(c))
	if err := s.TopUp(c.Request().Context(), req.Amount); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindTopUp, queue.EntityTransaction, middleware.CurrentIdentity(c).UserID, strconv.FormatInt(req.Amount, 10))
	return c.JSON(http.StatusCreated, topUpBody(s.State()))
}

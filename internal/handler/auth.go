package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/format"
	"github.com/iliyamo/ticketing-gateway/internal/middleware"
	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// AuthHandler exposes the caller's own account.  Login, registration and
// token refresh stay with the backend; the gateway only reads the session.
type AuthHandler struct{ *Deps }

func NewAuthHandler(d *Deps) *AuthHandler { return &AuthHandler{Deps: d} }

type meResp struct {
	model.User
	BalanceDisplay string `json:"balance_display"`
}

// Me handles GET /v1/me.  The role answered is the backend's; the token
// claim is only used when the backend omits it.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.session(c).Me(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	if u.Role == "" {
		u.Role = middleware.CurrentIdentity(c).Role
	}
	u.Role = model.NormalizeRole(u.Role)
	return c.JSON(http.StatusOK, meResp{User: *u, BalanceDisplay: format.RupiahInt(int64(u.Balance))})
}

// Balance handles GET /v1/balance for attendees.
func (h *AuthHandler) Balance(c echo.Context) error {
	u, err := h.session(c).Me(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"balance": u.Balance, "balance_display": format.RupiahInt(int64(u.Balance))})
}

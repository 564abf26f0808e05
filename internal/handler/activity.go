package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/middleware"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/repository"
)

// ActivityLister reads the audit log.
type ActivityLister interface {
	List(ctx context.Context, f repository.ActivityFilter) ([]queue.ActivityEvent, error)
	Get(ctx context.Context, id string) (*queue.ActivityEvent, error)
}

// ActivityHandler serves the admin activity feed.  The feed is read from
// the gateway's own database, so the token claim alone is not trusted:
// every request asks the backend who the caller is.
type ActivityHandler struct {
	*Deps
	Repo ActivityLister // nil when no audit database is configured
}

func NewActivityHandler(d *Deps, repo ActivityLister) *ActivityHandler {
	return &ActivityHandler{Deps: d, Repo: repo}
}

// admin confirms the caller with GET /api/auth/me and answers the request
// itself when the caller is not an admin.  It returns false once a
// response has been written.
func (h *ActivityHandler) admin(c echo.Context) (bool, error) {
	u, err := h.session(c).Me(c.Request().Context()) // the backend verifies the token signature
	if err != nil {
		return false, h.respondError(c, err)
	}
	if model.NormalizeRole(u.Role) != model.RoleAdmin { // backend role wins over the claim
		h.Log.WithField("request_id", middleware.RequestID(c)).Warn("activity feed: token role not confirmed by backend")
		return false, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return true, nil
}

// List handles GET /v1/admin/activity?entity_type=&entity_id=&limit=.
func (h *ActivityHandler) List(c echo.Context) error {
	if h.Repo == nil { // audit database not configured
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "activity log disabled"})
	}
	f := repository.ActivityFilter{
		EntityType: strings.ToLower(strings.TrimSpace(c.QueryParam("entity_type"))), // stored lower-case
		EntityID:   strings.TrimSpace(c.QueryParam("entity_id")),
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		f.Limit = n // clamped by the repository
	}
	if ok, err := h.admin(c); !ok {
		return err
	}
	items, err := h.Repo.List(c.Request().Context(), f)
	if err != nil {
		h.Log.WithError(err).Error("activity list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/admin/activity/:id.
func (h *ActivityHandler) Get(c echo.Context) error {
	if h.Repo == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "activity log disabled"})
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if ok, err := h.admin(c); !ok {
		return err
	}
	ev, err := h.Repo.Get(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("activity get failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activity"})
	}
	return c.JSON(http.StatusOK, ev)
}

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/model"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/store"
)

// ReportHandler serves the report workflow for one role scope.  The admin
// and organizer route groups each get their own instance.
type ReportHandler struct {
	*Deps
	Scope apiclient.Scope
}

func NewReportHandler(d *Deps, scope apiclient.Scope) *ReportHandler {
	return &ReportHandler{Deps: d, Scope: scope}
}

func (h *ReportHandler) store(c echo.Context, id string) *store.ReportStore {
	s := store.NewReportStore(h.session(c), h.Scope) // store bound to the caller's token
	s.Select(id)
	return s
}

// GetReport handles GET /v1/{admin|organizer}/reports/:id.
func (h *ReportHandler) GetReport(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	s := store.NewReportStore(h.session(c), h.Scope) // store bound to the caller's token
	if err := s.Load(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, s.State().Report)
}

type commentReq struct {
	Message string `json:"message"`
}

// AddComment handles POST .../reports/:id/comments and answers 201 with
// the re-fetched report.
func (h *ReportHandler) AddComment(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	var req commentReq
	if err := c.Bind(&req); err != nil { // decode JSON body
		return badBody(c) // malformed body
	}
	s := h.store(c, id) // select without fetching; the store re-fetches after the write
	if err := s.AddComment(c.Request().Context(), req.Message); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindReportCommented, queue.EntityReport, id, "") // audit trail
	return c.JSON(http.StatusCreated, s.State().Report)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH .../reports/:id/status?status=X.  A JSON body
// {"status": X} is accepted as well.
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	req := statusReq{Status: c.QueryParam("status")} // Bind skips the query string on PATCH
	if req.Status == "" {
		if err := c.Bind(&req); err != nil { // decode JSON body
			return badBody(c) // malformed body
		}
	}
	status := model.ReportStatus(strings.ToUpper(strings.TrimSpace(req.Status))) // accept lower-case input
	s := h.store(c, id)                                                          // select without fetching; the store re-fetches after the write
	if err := s.UpdateStatus(c.Request().Context(), status); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindReportStatusChanged, queue.EntityReport, id, string(status))
	return c.JSON(http.StatusOK, s.State().Report)
}

// DeleteReport handles DELETE /v1/admin/reports/:id?confirm=true.
func (h *ReportHandler) DeleteReport(c echo.Context) error {
	id, ok := pathID(c) // read :id from the path
	if !ok {
		return badID(c) // blank id
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm")) // anything but true means not confirmed
	if err := h.store(c, id).Delete(c.Request().Context(), confirmed); err != nil {
		return h.respondError(c, err)
	}
	h.publish(c, queue.KindReportDeleted, queue.EntityReport, id, "")
	return c.NoContent(http.StatusNoContent) // nothing left to show
}

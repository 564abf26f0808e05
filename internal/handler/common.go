package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/middleware"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/store"
	"github.com/iliyamo/ticketing-gateway/internal/validation"
)

// ActivityPublisher receives an event after each successful workflow action.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, ev queue.ActivityEvent) error
}

// Invalidator drops cached responses after a catalogue change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Deps bundles what every workflow handler needs: the backend client to
// open per-request sessions, the activity publisher, the cache to
// invalidate and the logger.  Publisher and Cache may be nil.
type Deps struct {
	API       *apiclient.Client
	Publisher ActivityPublisher
	Cache     Invalidator
	Log       *logrus.Entry
}

// session binds the caller's bearer token to the backend client.
func (d *Deps) session(c echo.Context) *apiclient.Session {
	return d.API.WithToken(middleware.CurrentIdentity(c).Token) // forward the caller's bearer token
}

// publish emits an activity event for the caller.  Failures are logged by
// the publisher and never change the response.
func (d *Deps) publish(c echo.Context, kind, entityType, entityID, detail string) {
	if d.Publisher == nil { // publishing disabled
		return
	}
	id := middleware.CurrentIdentity(c)
	ev := queue.NewActivity(kind, entityType, entityID)
	ev.ActorRole = id.Role
	ev.ActorEmail = id.Email
	if ev.ActorEmail == "" {
		ev.ActorEmail = id.Username // some tokens carry no email
	}
	ev.Detail = detail

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 5*time.Second) // outlive a cancelled request, but not forever
	defer cancel()
	_ = d.Publisher.PublishActivity(ctx, ev)
}

func (d *Deps) invalidate(c echo.Context) {
	if d.Cache != nil { // cache is optional
		d.Cache.Invalidate(c.Request().Context())
	}
}

// respondError maps a store or backend failure onto the gateway's JSON
// error shapes.  Validation failures carry per-field messages; backend
// 4xx answers other than 401/403/404 keep their status; everything else
// becomes 502.
func (d *Deps) respondError(c echo.Context, err error) error {
	if fields, ok := validation.AsErrors(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation_failed", "fields": fields})
	}
	switch {
	case errors.Is(err, store.ErrConfirmationRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation_required", "message": "pass confirm=true to delete permanently"})
	case errors.Is(err, store.ErrAdminOnly):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": err.Error()})
	case errors.Is(err, store.ErrNoReport):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	msg := apiclient.Message(err)
	switch apiclient.KindOf(err) {
	case apiclient.KindUnauthorized: // session expired upstream
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg, "redirect": "/login"})
	case apiclient.KindForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": msg})
	case apiclient.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": msg})
	}
	if status := apiclient.StatusCode(err); status >= 400 && status < 500 { // other client errors pass through
		return c.JSON(status, echo.Map{"error": "request_failed", "message": msg})
	}
	d.Log.WithError(err).WithField("route", c.Path()).Warn("upstream failure")
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream_error", "message": msg}) // 5xx and transport failures
}

// pathID reads and trims the :id path parameter.
func pathID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	return id, id != ""
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

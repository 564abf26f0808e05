package router // package router defines how HTTP routes are registered for the API

import (
	"net/http" // net/http provides the metrics handler type

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/ticketing-gateway/internal/handler"    // import the handlers that call the backend
	"github.com/iliyamo/ticketing-gateway/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/ticketing-gateway/internal/model"      // import role names
)

// Options carries the middleware shared by the authenticated routes.
// Limiter and Cache may be nil.
type Options struct {
	JWTSecret string                    // HMAC secret; empty reads claims unverified
	Limiter   echo.MiddlewareFunc       // token bucket, nil when Redis is unavailable
	Cache     *middleware.ResponseCache // catalogue response cache, nil when disabled
}

// roleRoutes registers /v1 routes guarded by a session check and a role
// check.  The guard is attached per route, never with Group.Use: Use adds
// a /v1/* catch-all, so unknown paths would take the last role's guard.
type roleRoutes struct {
	g     *echo.Group           // the shared /v1 group, without middleware
	guard []echo.MiddlewareFunc // session, role and rate limit, in that order
}

// routes builds the guard for roles on top of the plain /v1 group.
func (o Options) routes(e *echo.Echo, roles ...string) roleRoutes {
	guard := []echo.MiddlewareFunc{middleware.JWTAuth(o.JWTSecret), middleware.RequireRole(roles...)} // authenticate first, then check role
	if o.Limiter != nil { // limiter is optional
		guard = append(guard, o.Limiter) // rate limit after the caller is known so keys are per user
	}
	return roleRoutes{g: e.Group("/v1"), guard: guard}
}

func (r roleRoutes) add(method, path string, h echo.HandlerFunc, extra ...echo.MiddlewareFunc) {
	m := make([]echo.MiddlewareFunc, 0, len(r.guard)+len(extra)) // fresh slice per route
	m = append(m, r.guard...)
	m = append(m, extra...)
	r.g.Add(method, path, h, m...)
}

func (r roleRoutes) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	r.add(http.MethodGet, path, h, m...)
}
func (r roleRoutes) POST(path string, h echo.HandlerFunc)   { r.add(http.MethodPost, path, h) }
func (r roleRoutes) PUT(path string, h echo.HandlerFunc)    { r.add(http.MethodPut, path, h) }
func (r roleRoutes) PATCH(path string, h echo.HandlerFunc)  { r.add(http.MethodPatch, path, h) }
func (r roleRoutes) DELETE(path string, h echo.HandlerFunc) { r.add(http.MethodDelete, path, h) }

func (o Options) cached() []echo.MiddlewareFunc {
	if o.Cache == nil { // cache disabled
		return nil
	}
	return []echo.MiddlewareFunc{o.Cache.Middleware()}
}

// RegisterRoutes registers routes that do not require authentication.
// metrics may be nil when METRICS_ENABLED is off.
func RegisterRoutes(e *echo.Echo, health *handler.Health, metrics http.Handler) {
	e.GET("/healthz", health.Handle) // liveness plus dependency checks
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics)) // Prometheus scrape endpoint
	}
}

// RegisterCommon registers endpoints open to every authenticated role:
// the caller's profile and the event catalogue.
func RegisterCommon(e *echo.Echo, a *handler.AuthHandler, ev *handler.EventHandler, o Options) {
	g := o.routes(e, model.RoleAdmin, model.RoleOrganizer, model.RoleAttendee)
	g.GET("/me", a.Me)                               // profile and balance of the caller
	g.GET("/events", ev.ListEvents, o.cached()...)   // catalogue, cached per user
	g.GET("/events/:id", ev.GetEvent, o.cached()...) // event detail, cached per user
}

// RegisterOrganizer registers event management and the organizer flavour
// of the report workflow.  Hard deletes are shared with admins.
func RegisterOrganizer(e *echo.Echo, ev *handler.EventHandler, rep *handler.ReportHandler, o Options) {
	g := o.routes(e, model.RoleOrganizer)
	g.POST("/events", ev.CreateEvent)            // create an event
	g.PUT("/events/:id", ev.UpdateEvent)         // replace event fields
	g.POST("/events/:id/cancel", ev.CancelEvent) // soft cancel
	g.GET("/my-events", ev.MyEvents)             // events owned by the caller

	g.GET("/organizer/reports/:id", rep.GetReport)             // report detail
	g.POST("/organizer/reports/:id/comments", rep.AddComment)  // append a comment
	g.PATCH("/organizer/reports/:id/status", rep.UpdateStatus) // move the report along

	del := o.routes(e, model.RoleOrganizer, model.RoleAdmin)
	del.DELETE("/events/:id", ev.DeleteEvent) // hard delete
}

// RegisterAdmin registers the admin report workflow, the transaction
// console and the activity feed.
func RegisterAdmin(e *echo.Echo, rep *handler.ReportHandler, tx *handler.TransactionHandler, act *handler.ActivityHandler, o Options) {
	g := o.routes(e, model.RoleAdmin)
	g.GET("/admin/reports/:id", rep.GetReport)             // report detail
	g.POST("/admin/reports/:id/comments", rep.AddComment)  // append a comment
	g.PATCH("/admin/reports/:id/status", rep.UpdateStatus) // move the report along
	g.DELETE("/admin/reports/:id", rep.DeleteReport)       // needs ?confirm=true

	g.GET("/admin/transactions", tx.ListAll)                 // filtered, sorted, paged
	g.DELETE("/admin/transactions", tx.DeleteAll)            // needs ?confirm=true
	g.DELETE("/admin/transactions/:id", tx.Delete)           // single delete
	g.PATCH("/admin/transactions/:id/failed", tx.MarkFailed) // one-way status change

	g.GET("/admin/activity", act.List)    // audit feed from the local database
	g.GET("/admin/activity/:id", act.Get) // single audit entry
}

// RegisterAttendee registers purchasing, history and top-up endpoints.
func RegisterAttendee(e *echo.Echo, a *handler.AuthHandler, tx *handler.TransactionHandler, top *handler.TopUpHandler, o Options) {
	g := o.routes(e, model.RoleAttendee)
	g.POST("/events/:id/purchase", tx.Purchase) // buy one ticket
	g.GET("/transactions", tx.ListMine)         // caller's own transactions
	g.GET("/balance", a.Balance)                // current balance
	g.GET("/topup/history", top.History)        // top-up transactions only
	g.POST("/topup", top.TopUp)                 // add funds
}

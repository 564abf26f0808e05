package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything whose liveness can be probed (database, Redis).
type Pinger func(ctx context.Context) error

// Health reports liveness plus the state of optional dependencies.  The
// gateway stays up when Redis or the audit database are down, so a failed
// probe yields "degraded" with 200, not an error status.
type Health struct {
	Checks map[string]Pinger
}

func (h *Health) Handle(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	components := make(map[string]string, len(h.Checks))
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			components[name] = "down"
			status = "degraded"
			continue
		}
		components[name] = "up"
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status, "components": components})
}

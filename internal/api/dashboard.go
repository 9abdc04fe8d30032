package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/poller"
)

// SnapshotProvider supplies the latest dashboard snapshot. Satisfied by
// *poller.Poller.
type SnapshotProvider interface {
	Snapshot() *poller.Snapshot
}

// SetSnapshotProvider wires the background poller into the dashboard
// route. Until it is set, GET /api/dashboard reports unavailable.
func (c *Controller) SetSnapshotProvider(p SnapshotProvider) {
	c.snapshots = p
}

// initDashboardRoutes registers the dashboard snapshot endpoint.
func (c *Controller) initDashboardRoutes() {
	c.Echo.GET("/api/dashboard", c.GetDashboardSnapshot)
}

// GetDashboardSnapshot handles GET /api/dashboard. It serves the
// poller's last good snapshot, which may be stale if recent polls
// failed, and returns 503 before the first successful poll.
func (c *Controller) GetDashboardSnapshot(ctx echo.Context) error {
	if c.snapshots == nil {
		err := errors.Newf("dashboard poller is not running").
			Component("api").
			Category(errors.CategoryGeneric).
			Build()
		return c.HandleError(ctx, err, "Dashboard snapshot unavailable", http.StatusServiceUnavailable)
	}

	snapshot := c.snapshots.Snapshot()
	if snapshot == nil {
		err := errors.Newf("no snapshot fetched yet").
			Component("api").
			Category(errors.CategoryGeneric).
			Build()
		return c.HandleError(ctx, err, "Dashboard snapshot not ready", http.StatusServiceUnavailable)
	}

	return ctx.JSON(http.StatusOK, snapshot)
}

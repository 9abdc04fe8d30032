package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

// envelope is the response wrapper used by the room management routes.
// The measurement routes return bare JSON instead; the two conventions
// are kept as-is per route.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// roomLimitRequest is the request body for creating or updating a
// room's safety thresholds.
type roomLimitRequest struct {
	Room  string   `json:"room"`
	USL01 *float64 `json:"usl01"`
	USL03 *float64 `json:"usl03"`
	USL05 *float64 `json:"usl05"`
	UCL01 *float64 `json:"ucl01"`
	UCL03 *float64 `json:"ucl03"`
	UCL05 *float64 `json:"ucl05"`
}

func (r *roomLimitRequest) toModel(room string) *datastore.RoomDustSafetyLimit {
	return &datastore.RoomDustSafetyLimit{
		Room:    room,
		USLUm01: r.USL01,
		USLUm03: r.USL03,
		USLUm05: r.USL05,
		UCLUm01: r.UCL01,
		UCLUm03: r.UCL03,
		UCLUm05: r.UCL05,
	}
}

// initRoomRoutes registers the room safety limit endpoints.
func (c *Controller) initRoomRoutes() {
	g := c.Echo.Group("/api/room-management")

	g.GET("/", c.GetAllRoomLimits)
	g.GET("/:room", c.GetRoomLimit)
	g.POST("/", c.CreateRoomLimit)
	g.PUT("/:room", c.UpdateRoomLimit)
	g.DELETE("/:room", c.DeleteRoomLimit)
}

// GetAllRoomLimits handles GET /api/room-management/
func (c *Controller) GetAllRoomLimits(ctx echo.Context) error {
	limits, err := c.DS.GetAllRoomLimits(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get room safety limits", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, envelope{Success: true, Data: limits})
}

// GetRoomLimit handles GET /api/room-management/:room
func (c *Controller) GetRoomLimit(ctx echo.Context) error {
	room := ctx.Param("room")

	limit, err := c.DS.GetRoomLimit(ctx.Request().Context(), room)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get room safety limit", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, envelope{Success: true, Data: limit})
}

// CreateRoomLimit handles POST /api/room-management/
func (c *Controller) CreateRoomLimit(ctx echo.Context) error {
	var req roomLimitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Room == "" {
		err := errors.Newf("room is required").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
		return c.HandleError(ctx, err, "Room is required", http.StatusBadRequest)
	}

	limit := req.toModel(req.Room)
	if err := c.DS.CreateRoomLimit(ctx.Request().Context(), limit); err != nil {
		return c.HandleError(ctx, err, "Failed to create room safety limit", statusForError(err))
	}
	c.queryCache.Delete(roomLimitsCacheKey)
	return ctx.JSON(http.StatusCreated, envelope{
		Success: true,
		Data:    limit,
		Message: "Room safety limit created",
	})
}

// UpdateRoomLimit handles PUT /api/room-management/:room. The six
// threshold fields are replaced wholesale, absent ones become NULL.
func (c *Controller) UpdateRoomLimit(ctx echo.Context) error {
	room := ctx.Param("room")

	var req roomLimitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	limit := req.toModel(room)
	if err := c.DS.UpdateRoomLimit(ctx.Request().Context(), limit); err != nil {
		return c.HandleError(ctx, err, "Failed to update room safety limit", statusForError(err))
	}
	c.queryCache.Delete(roomLimitsCacheKey)
	return ctx.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    limit,
		Message: "Room safety limit updated",
	})
}

// DeleteRoomLimit handles DELETE /api/room-management/:room
func (c *Controller) DeleteRoomLimit(ctx echo.Context) error {
	room := ctx.Param("room")

	if err := c.DS.DeleteRoomLimit(ctx.Request().Context(), room); err != nil {
		return c.HandleError(ctx, err, "Failed to delete room safety limit", statusForError(err))
	}
	c.queryCache.Delete(roomLimitsCacheKey)
	return ctx.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Room safety limit deleted",
	})
}

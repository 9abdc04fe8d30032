package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/analytics"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

const roomLimitsCacheKey = "analytics:room-limits"

// initAnalyticsRoutes registers the chart data endpoints.
func (c *Controller) initAnalyticsRoutes() {
	g := c.Echo.Group("/api/analytics")

	g.POST("/boxplot/locations", c.LocationBoxPlots)
	g.POST("/boxplot/daily", c.DailyBoxPlots)
	g.POST("/exceedance", c.ExceedanceSummary)
	g.GET("/thresholds/:room", c.RoomThresholds)
}

// searchAndPivot runs a measurement search and reshapes the rows into
// long records for the aggregation functions.
func (c *Controller) searchAndPivot(ctx echo.Context) ([]analytics.LongRecord, []datastore.Measurement, error) {
	var filter datastore.MeasurementFilter
	if err := ctx.Bind(&filter); err != nil {
		return nil, nil, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Context("operation", "bind_filter").
			Build()
	}

	measurements, err := c.DS.SearchMeasurements(ctx.Request().Context(), &filter)
	if err != nil {
		return nil, nil, err
	}
	return analytics.Pivot(measurements), measurements, nil
}

// locationBoxPlotsResponse is one page of per-location boxes.
type locationBoxPlotsResponse struct {
	Plots      []analytics.LocationBoxPlot `json:"plots"`
	Page       int                         `json:"page"`
	TotalPages int                         `json:"total_pages"`
}

// LocationBoxPlots handles POST /api/analytics/boxplot/locations. The
// optional page query parameter pages through locations using the
// configured dashboard page size.
func (c *Controller) LocationBoxPlots(ctx echo.Context) error {
	records, _, err := c.searchAndPivot(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to compute location box plots", statusForError(err))
	}
	plots := analytics.LocationBoxPlots(records)

	pageSize := c.Settings.Dashboard.PageSize
	if pageSize <= 0 {
		return ctx.JSON(http.StatusOK, locationBoxPlotsResponse{
			Plots:      plots,
			Page:       1,
			TotalPages: 1,
		})
	}

	page := 1
	if raw := ctx.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			badPage := errors.Newf("invalid page number: %s", raw).
				Component("api").
				Category(errors.CategoryValidation).
				Build()
			return c.HandleError(ctx, badPage, "Invalid page number", http.StatusBadRequest)
		}
		page = parsed
	}

	totalPages := (len(plots) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > len(plots) {
		start = len(plots)
	}
	end := start + pageSize
	if end > len(plots) {
		end = len(plots)
	}

	return ctx.JSON(http.StatusOK, locationBoxPlotsResponse{
		Plots:      plots[start:end],
		Page:       page,
		TotalPages: totalPages,
	})
}

// DailyBoxPlots handles POST /api/analytics/boxplot/daily. Results are
// bucketed by month for month-paginated charts.
func (c *Controller) DailyBoxPlots(ctx echo.Context) error {
	records, _, err := c.searchAndPivot(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to compute daily box plots", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, analytics.MonthlyBoxPlots(records))
}

// exceedanceResponse summarizes threshold exceedances for a window.
// MostExcessiveDustType is null when nothing exceeded a limit.
type exceedanceResponse struct {
	AlarmCount            int            `json:"alarm_count"`
	ExceedancesByDustType map[string]int `json:"exceedances_by_dust_type"`
	MostExcessiveDustType *float64       `json:"most_excessive_dust_type"`
}

// roomLimitsByRoom returns the configured safety limits keyed by room,
// cached briefly since the exceedance endpoints are polled.
func (c *Controller) roomLimitsByRoom(ctx echo.Context) (map[string]datastore.RoomDustSafetyLimit, error) {
	if cached, found := c.queryCache.Get(roomLimitsCacheKey); found {
		if limits, ok := cached.(map[string]datastore.RoomDustSafetyLimit); ok {
			return limits, nil
		}
	}

	all, err := c.DS.GetAllRoomLimits(ctx.Request().Context())
	if err != nil {
		return nil, err
	}

	limits := make(map[string]datastore.RoomDustSafetyLimit, len(all))
	for _, limit := range all {
		limits[limit.Room] = limit
	}
	c.queryCache.SetDefault(roomLimitsCacheKey, limits)
	return limits, nil
}

// ExceedanceSummary handles POST /api/analytics/exceedance
func (c *Controller) ExceedanceSummary(ctx echo.Context) error {
	_, measurements, err := c.searchAndPivot(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to compute exceedance summary", statusForError(err))
	}

	limits, err := c.roomLimitsByRoom(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get room safety limits", http.StatusInternalServerError)
	}

	tally := analytics.ExceedanceTally(measurements, limits)
	byLabel := make(map[string]int, len(tally))
	for dustType, count := range tally {
		byLabel[analytics.DustTypeLabel(dustType)] = count
	}

	resp := exceedanceResponse{
		AlarmCount:            analytics.CountAlarms(measurements),
		ExceedancesByDustType: byLabel,
	}
	if dustType, ok := analytics.MostExcessiveDustType(measurements, limits); ok {
		resp.MostExcessiveDustType = &dustType
	}
	return ctx.JSON(http.StatusOK, resp)
}

// thresholdLines holds the configured limit per dust type label.
// Unconfigured limits are absent rather than zero.
type thresholdLines struct {
	USL map[string]float64 `json:"usl"`
	UCL map[string]float64 `json:"ucl"`
}

// RoomThresholds handles GET /api/analytics/thresholds/:room
func (c *Controller) RoomThresholds(ctx echo.Context) error {
	room := ctx.Param("room")

	limit, err := c.DS.GetRoomLimit(ctx.Request().Context(), room)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get room safety limit", statusForError(err))
	}

	lines := thresholdLines{
		USL: make(map[string]float64),
		UCL: make(map[string]float64),
	}
	for _, dustType := range analytics.DustTypes {
		label := analytics.DustTypeLabel(dustType)
		if v := analytics.ThresholdLine(limit, analytics.ThresholdUSL, dustType); v != nil {
			lines.USL[label] = *v
		}
		if v := analytics.ThresholdLine(limit, analytics.ThresholdUCL, dustType); v != nil {
			lines.UCL[label] = *v
		}
	}
	return ctx.JSON(http.StatusOK, lines)
}

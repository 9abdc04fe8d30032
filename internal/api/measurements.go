package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

// initMeasurementRoutes registers the measurement endpoints. These
// predate the enveloped response convention and return bare JSON.
func (c *Controller) initMeasurementRoutes() {
	g := c.Echo.Group("/api/dust-measurements")

	g.GET("/", c.GetAllMeasurements)
	g.POST("/date-range", c.SearchMeasurements)
	g.GET("/locations", c.GetMeasurementLocations)
	g.POST("/", c.CreateMeasurement)
}

// GetAllMeasurements handles GET /api/dust-measurements/
func (c *Controller) GetAllMeasurements(ctx echo.Context) error {
	measurements, err := c.DS.GetAllMeasurements(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get measurements", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, measurements)
}

// SearchMeasurements handles POST /api/dust-measurements/date-range
func (c *Controller) SearchMeasurements(ctx echo.Context) error {
	var filter datastore.MeasurementFilter
	if err := ctx.Bind(&filter); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	measurements, err := c.DS.SearchMeasurements(ctx.Request().Context(), &filter)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryValidation) {
			return c.HandleError(ctx, err, "Invalid measurement filter", http.StatusBadRequest)
		}
		return c.HandleError(ctx, err, "Failed to search measurements", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, measurements)
}

// splitQueryList parses a comma-separated query parameter into a slice,
// dropping empty entries so "?rooms=" means no filter.
func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// GetMeasurementLocations handles GET /api/dust-measurements/locations
func (c *Controller) GetMeasurementLocations(ctx echo.Context) error {
	rooms := splitQueryList(ctx.QueryParam("rooms"))
	areas := splitQueryList(ctx.QueryParam("areas"))

	locations, err := c.DS.GetMeasurementLocations(ctx.Request().Context(), rooms, areas)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get measurement locations", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, locations)
}

// createMeasurementRequest uses pointer fields so that absent and
// zero-valued fields can be told apart during validation.
type createMeasurementRequest struct {
	MeasurementDatetime *string `json:"measurement_datetime"`
	Room                *string `json:"room"`
	Area                string  `json:"area"`
	LocationName        *string `json:"location_name"`
	Count               *int    `json:"count"`
	Um01                *int    `json:"um01"`
	Um03                *int    `json:"um03"`
	Um05                *int    `json:"um05"`
	RunningState        *int    `json:"running_state"`
	AlarmHigh           *int    `json:"alarm_high"`
}

func (r *createMeasurementRequest) missingFields() []string {
	var missing []string
	checks := []struct {
		name    string
		present bool
	}{
		{"measurement_datetime", r.MeasurementDatetime != nil},
		{"room", r.Room != nil},
		{"location_name", r.LocationName != nil},
		{"count", r.Count != nil},
		{"um01", r.Um01 != nil},
		{"um03", r.Um03 != nil},
		{"um05", r.Um05 != nil},
		{"running_state", r.RunningState != nil},
		{"alarm_high", r.AlarmHigh != nil},
	}
	for _, check := range checks {
		if !check.present {
			missing = append(missing, check.name)
		}
	}
	return missing
}

// CreateMeasurement handles POST /api/dust-measurements/
func (c *Controller) CreateMeasurement(ctx echo.Context) error {
	var req createMeasurementRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if missing := req.missingFields(); len(missing) > 0 {
		err := errors.Newf("missing required fields: %s", strings.Join(missing, ", ")).
			Component("api").
			Category(errors.CategoryValidation).
			Context("missing_fields", strings.Join(missing, ",")).
			Build()
		return c.HandleError(ctx, err, "Missing required measurement fields", http.StatusBadRequest)
	}

	when, err := time.ParseInLocation(datastore.DateTimeLayout, *req.MeasurementDatetime, time.UTC)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid measurement_datetime format, expected YYYY-MM-DD HH:MM:SS", http.StatusBadRequest)
	}

	measurement := datastore.Measurement{
		MeasurementDatetime: when,
		Room:                *req.Room,
		Area:                req.Area,
		LocationName:        *req.LocationName,
		Count:               *req.Count,
		Um01:                req.Um01,
		Um03:                req.Um03,
		Um05:                req.Um05,
		RunningState:        *req.RunningState,
		AlarmHigh:           *req.AlarmHigh,
	}

	if err := c.DS.SaveMeasurement(ctx.Request().Context(), &measurement); err != nil {
		return c.HandleError(ctx, err, "Failed to save measurement", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, measurement)
}

// Package api implements the JSON REST surface of the dashboard.
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/conf"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/logging"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability"
)

const (
	queryCacheTTL     = 5 * time.Minute
	queryCacheCleanup = 10 * time.Minute
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings

	apiLogger      *slog.Logger
	apiLoggerClose func() error
	queryCache     *cache.Cache // caches threshold and exceedance lookups
	metrics        *observability.Metrics
	snapshots      SnapshotProvider
	startTime      time.Time
}

// New creates a new API controller and registers all routes on the
// given Echo instance.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings, metrics *observability.Metrics) (*Controller, error) {
	c := &Controller{
		Echo:       e,
		DS:         ds,
		Settings:   settings,
		queryCache: cache.New(queryCacheTTL, queryCacheCleanup),
		metrics:    metrics,
		startTime:  time.Now(),
	}

	if settings.Main.Log.Enabled {
		logger, closeFunc, err := logging.NewFileLogger(settings.Main.Log.Path, "api", slog.LevelInfo)
		if err != nil {
			return nil, errors.New(err).
				Component("api").
				Category(errors.CategoryFileIO).
				Context("operation", "init_api_logger").
				Context("log_path", settings.Main.Log.Path).
				Build()
		}
		c.apiLogger = logger
		c.apiLoggerClose = closeFunc
	} else {
		c.apiLogger = logging.ForService("api")
	}

	c.initRoutes()
	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Echo.Use(c.LoggingMiddleware())

	c.Echo.GET("/api/health", c.HealthCheck)
	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}

	c.initMeasurementRoutes()
	c.initRoomRoutes()
	c.initAnalyticsRoutes()
	c.initDashboardRoutes()
}

// Shutdown releases controller resources. Safe to call more than once.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			logging.Error("Failed to close API log file", "error", err)
		}
		c.apiLoggerClose = nil
	}
}

// HealthCheck handles GET /api/health
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(c.startTime).Seconds()),
	})
}

// LoggingMiddleware creates a middleware function that logs API
// requests and records request metrics.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			req := ctx.Request()
			res := ctx.Response()
			elapsed := time.Since(start)

			if c.metrics != nil {
				c.metrics.HTTP.RecordRequest(req.Method, ctx.Path(), strconv.Itoa(res.Status))
				c.metrics.HTTP.RecordRequestDuration(req.Method, ctx.Path(), elapsed.Seconds())
				c.metrics.HTTP.RecordResponseSize(req.Method, ctx.Path(), res.Size)
			}

			if c.apiLogger == nil {
				return err
			}

			// LogAttrs avoids allocations when the level is disabled.
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", elapsed.Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// ErrorResponse represents a standardized API error payload
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a short random identifier for tracking
// an error across logs and responses.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// statusForError maps error categories to HTTP status codes.
func statusForError(err error) int {
	switch errors.CategoryOf(err) {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError logs an error and writes a standardized error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	if c.apiLogger != nil {
		errorStr := message
		if err != nil {
			errorStr = err.Error()
		}
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	if c.metrics != nil {
		c.metrics.HTTP.RecordRequestError(ctx.Request().Method, ctx.Path(), string(errors.CategoryOf(err)))
	}

	return ctx.JSON(code, errorResp)
}

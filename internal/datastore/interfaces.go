// Package datastore handles database operations for dust measurement data
package datastore

import (
	"context"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/conf"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/logging"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability/metrics"
)

// Interface defines the set of database operations used by the rest of
// the application.
type Interface interface {
	Open() error
	Close() error
	Optimize(ctx context.Context) error

	// Measurements
	GetAllMeasurements(ctx context.Context) ([]Measurement, error)
	SearchMeasurements(ctx context.Context, filter *MeasurementFilter) ([]Measurement, error)
	GetMeasurementLocations(ctx context.Context, rooms, areas []string) ([]MeasurementLocation, error)
	SaveMeasurement(ctx context.Context, m *Measurement) error

	// Room safety limits
	GetAllRoomLimits(ctx context.Context) ([]RoomDustSafetyLimit, error)
	GetRoomLimit(ctx context.Context, room string) (*RoomDustSafetyLimit, error)
	CreateRoomLimit(ctx context.Context, limit *RoomDustSafetyLimit) error
	UpdateRoomLimit(ctx context.Context, limit *RoomDustSafetyLimit) error
	DeleteRoomLimit(ctx context.Context, room string) error
}

// DataStore implements the parts of Interface that are shared between
// the SQLite and MySQL stores.
type DataStore struct {
	DB *gorm.DB
}

var (
	storeLogger     *slog.Logger
	storeLoggerOnce sync.Once
)

// getLogger returns the shared datastore logger, creating it on first use.
func getLogger() *slog.Logger {
	storeLoggerOnce.Do(func() {
		storeLogger = logging.ForService("datastore")
		if storeLogger == nil {
			storeLogger = slog.Default().With("service", "datastore")
		}
	})
	return storeLogger
}

// New creates the appropriate store for the enabled output backend.
// dsMetrics may be nil, disabling query metrics.
func New(settings *conf.Settings, dsMetrics *metrics.DatastoreMetrics) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
			Metrics:  dsMetrics,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
			Metrics:  dsMetrics,
		}
	default:
		// conf.ValidateSettings guarantees one backend is enabled, so this
		// is unreachable in a validated configuration.
		return nil
	}
}

// Optimize runs backend-agnostic maintenance. The concrete stores may
// override it with engine-specific statements.
func (ds *DataStore) Optimize(ctx context.Context) error {
	return nil
}

package datastore

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/conf"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability/metrics"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
	Metrics  *metrics.DatastoreMetrics
}

// Open sets up the MySQL database connection
func (store *MySQLStore) Open() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		store.Settings.Output.MySQL.Username, store.Settings.Output.MySQL.Password,
		store.Settings.Output.MySQL.Host, store.Settings.Output.MySQL.Port,
		store.Settings.Output.MySQL.Database)

	newLogger := createGormLogger(store.Metrics)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		getLogger().Error("Failed to open MySQL database",
			"host", store.Settings.Output.MySQL.Host,
			"port", store.Settings.Output.MySQL.Port,
			"database", store.Settings.Output.MySQL.Database,
			"error", err)
		return fmt.Errorf("failed to open MySQL database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "MySQL", dsn)
}

// Close closes the MySQL database connection
func (store *MySQLStore) Close() error {
	if store.DB == nil {
		getLogger().Error("Database connection is not initialized")
		return fmt.Errorf("database connection is not initialized")
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		getLogger().Error("Failed to retrieve generic DB object", "error", err)
		return err
	}

	if err := sqlDB.Close(); err != nil {
		getLogger().Error("Failed to close MySQL database", "error", err)
		return err
	}

	if store.Settings.Debug {
		getLogger().Debug("MySQL database connection closed successfully")
	}
	return nil
}

// Optimize runs ANALYZE TABLE on the measurement tables so the query
// planner keeps accurate statistics as data accumulates.
func (store *MySQLStore) Optimize(ctx context.Context) error {
	if store.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	for _, table := range []string{Measurement{}.TableName(), RoomDustSafetyLimit{}.TableName()} {
		if err := store.DB.WithContext(ctx).Exec("ANALYZE TABLE " + table).Error; err != nil {
			return dbError(err, "analyze_table", "", "db_type", "mysql", "table", table)
		}
	}
	return nil
}

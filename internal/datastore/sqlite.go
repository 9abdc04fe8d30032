package datastore

import (
	"context"
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/conf"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability/metrics"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
	Metrics  *metrics.DatastoreMetrics
}

// Open sets up the SQLite database connection
func (store *SQLiteStore) Open() error {
	dir, fileName := filepath.Split(store.Settings.Output.SQLite.Path)
	basePath := conf.GetBasePath(dir)
	absoluteFilePath := filepath.Join(basePath, fileName)

	newLogger := createGormLogger(store.Metrics)

	db, err := gorm.Open(sqlite.Open(absoluteFilePath), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", absoluteFilePath)
}

// Close closes the SQLite database connection
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		getLogger().Error("Failed to retrieve generic DB object", "error", err)
		return err
	}

	if err := sqlDB.Close(); err != nil {
		getLogger().Error("Failed to close SQLite database", "error", err)
		return err
	}

	return nil
}

// Optimize runs SQLite-specific maintenance to keep query plans fresh
// and reclaim space after deletions.
func (store *SQLiteStore) Optimize(ctx context.Context) error {
	if store.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	if err := store.DB.WithContext(ctx).Exec("PRAGMA optimize").Error; err != nil {
		return dbError(err, "optimize", "", "db_type", "sqlite")
	}
	if err := store.DB.WithContext(ctx).Exec("VACUUM").Error; err != nil {
		return dbError(err, "vacuum", "", "db_type", "sqlite")
	}
	return nil
}

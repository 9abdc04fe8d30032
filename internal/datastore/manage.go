package datastore

import (
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
	"gorm.io/gorm"
)

// performAutoMigration ensures the database schema matches the model
// definitions. dbType and connectionInfo are only used for error context.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Measurement{}, &RoomDustSafetyLimit{}); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migration").
			Context("db_type", dbType).
			Build()
	}

	if debug {
		getLogger().Debug("Database initialized",
			"db_type", dbType,
			"connection", connectionInfo)
	}

	return nil
}

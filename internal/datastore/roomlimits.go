package datastore

import (
	"context"

	"gorm.io/gorm"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

// GetAllRoomLimits retrieves every configured room safety limit.
func (ds *DataStore) GetAllRoomLimits(ctx context.Context) ([]RoomDustSafetyLimit, error) {
	var limits []RoomDustSafetyLimit
	err := ds.DB.WithContext(ctx).
		Order("room ASC").
		Find(&limits).Error
	if err != nil {
		return nil, dbError(err, "get_all_room_limits", "")
	}
	return limits, nil
}

// GetRoomLimit retrieves the safety limit for a single room.
func (ds *DataStore) GetRoomLimit(ctx context.Context, room string) (*RoomDustSafetyLimit, error) {
	if room == "" {
		return nil, validationError("room is required", "room", room)
	}

	var limit RoomDustSafetyLimit
	err := ds.DB.WithContext(ctx).
		Where("room = ?", room).
		First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("room safety limit", room)
		}
		return nil, dbError(err, "get_room_limit", "", "room", room)
	}
	return &limit, nil
}

// CreateRoomLimit inserts a new room safety limit. The room must not
// already have one configured.
func (ds *DataStore) CreateRoomLimit(ctx context.Context, limit *RoomDustSafetyLimit) error {
	if limit.Room == "" {
		return validationError("room is required", "room", limit.Room)
	}

	var count int64
	if err := ds.DB.WithContext(ctx).
		Model(&RoomDustSafetyLimit{}).
		Where("room = ?", limit.Room).
		Count(&count).Error; err != nil {
		return dbError(err, "create_room_limit", "", "room", limit.Room)
	}
	if count > 0 {
		return conflictError("room safety limit", limit.Room)
	}

	if err := ds.DB.WithContext(ctx).Create(limit).Error; err != nil {
		return dbError(err, "create_room_limit", "", "room", limit.Room)
	}
	return nil
}

// UpdateRoomLimit replaces the thresholds for an existing room. Nil
// threshold values are persisted as NULL, clearing the limit.
func (ds *DataStore) UpdateRoomLimit(ctx context.Context, limit *RoomDustSafetyLimit) error {
	if limit.Room == "" {
		return validationError("room is required", "room", limit.Room)
	}

	// Existence is checked up front rather than via RowsAffected: the
	// MySQL protocol reports changed rows, so an update that writes the
	// same values back would look like a missing room.
	var count int64
	if err := ds.DB.WithContext(ctx).
		Model(&RoomDustSafetyLimit{}).
		Where("room = ?", limit.Room).
		Count(&count).Error; err != nil {
		return dbError(err, "update_room_limit", "", "room", limit.Room)
	}
	if count == 0 {
		return notFoundError("room safety limit", limit.Room)
	}

	// Select all columns so nil pointers overwrite existing values.
	err := ds.DB.WithContext(ctx).
		Model(&RoomDustSafetyLimit{}).
		Where("room = ?", limit.Room).
		Select("usl_um01", "usl_um03", "usl_um05", "ucl_um01", "ucl_um03", "ucl_um05").
		Updates(limit).Error
	if err != nil {
		return dbError(err, "update_room_limit", "", "room", limit.Room)
	}
	return nil
}

// DeleteRoomLimit removes the safety limit for a room.
func (ds *DataStore) DeleteRoomLimit(ctx context.Context, room string) error {
	if room == "" {
		return validationError("room is required", "room", room)
	}

	result := ds.DB.WithContext(ctx).
		Where("room = ?", room).
		Delete(&RoomDustSafetyLimit{})
	if result.Error != nil {
		return dbError(result.Error, "delete_room_limit", "", "room", room)
	}
	if result.RowsAffected == 0 {
		return notFoundError("room safety limit", room)
	}
	return nil
}

package datastore

import (
	"time"
)

// Measurement represents a single particle-counter reading taken at one
// sampling location inside a cleanroom.
type Measurement struct {
	MeasurementID       uint      `gorm:"column:measurement_id;primaryKey;autoIncrement" json:"measurement_id"`
	MeasurementDatetime time.Time `gorm:"column:measurement_datetime;index:idx_measurements_datetime" json:"measurement_datetime"`
	Room                string    `gorm:"column:room;index:idx_measurements_room" json:"room"`
	Area                string    `gorm:"column:area" json:"area"`
	LocationName        string    `gorm:"column:location_name" json:"location_name"`
	Count               int       `gorm:"column:count" json:"count"`
	Um01                *int      `gorm:"column:um01" json:"um01,omitempty"`
	Um03                *int      `gorm:"column:um03" json:"um03,omitempty"`
	Um05                *int      `gorm:"column:um05" json:"um05,omitempty"`
	RunningState        int       `gorm:"column:running_state" json:"running_state"`
	AlarmHigh           int       `gorm:"column:alarm_high" json:"alarm_high"`
}

// TableName overrides the default GORM table name for measurements.
func (Measurement) TableName() string {
	return "dust_measurements"
}

// RoomDustSafetyLimit holds the per-room USL and UCL thresholds for each
// monitored particle size. A nil value means no limit is configured for
// that size, which is distinct from a limit of zero.
type RoomDustSafetyLimit struct {
	Room    string   `gorm:"column:room;primaryKey" json:"room"`
	USLUm01 *float64 `gorm:"column:usl_um01" json:"usl01"`
	USLUm03 *float64 `gorm:"column:usl_um03" json:"usl03"`
	USLUm05 *float64 `gorm:"column:usl_um05" json:"usl05"`
	UCLUm01 *float64 `gorm:"column:ucl_um01" json:"ucl01"`
	UCLUm03 *float64 `gorm:"column:ucl_um03" json:"ucl03"`
	UCLUm05 *float64 `gorm:"column:ucl_um05" json:"ucl05"`
}

// TableName overrides the default GORM table name for safety limits.
func (RoomDustSafetyLimit) TableName() string {
	return "room_dust_safety_limits"
}

// MeasurementLocation is a distinct room/area/location tuple that has at
// least one measurement on record.
type MeasurementLocation struct {
	Room         string `gorm:"column:room" json:"room"`
	Area         string `gorm:"column:area" json:"area"`
	LocationName string `gorm:"column:location_name" json:"location_name"`
}

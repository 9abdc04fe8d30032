package datastore

import (
	"context"
	"fmt"
	"time"
)

// DateTimeLayout is the wire format for measurement timestamps. All
// timestamps are interpreted as UTC.
const DateTimeLayout = "2006-01-02 15:04:05"

// baseColumns are always selected regardless of the dust type filter.
var baseColumns = []string{
	"measurement_id",
	"measurement_datetime",
	"room",
	"area",
	"location_name",
	"count",
	"running_state",
	"alarm_high",
}

// dustTypeColumn maps a particle size in micrometers to its count column.
// Sizes outside this set are rejected during filter validation.
var dustTypeColumn = map[float64]string{
	0.1: "um01",
	0.3: "um03",
	0.5: "um05",
}

// MeasurementFilter describes a measurement search. StartDate and EndDate
// are required and inclusive on both ends. The slice fields are optional;
// an empty slice matches everything rather than nothing.
type MeasurementFilter struct {
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Rooms     []string  `json:"rooms"`
	Areas     []string  `json:"areas"`
	Locations []string  `json:"locations"`
	DustTypes []float64 `json:"dustTypes"`
}

// Validate checks the filter and resolves the date range and the set of
// um columns to select. With no dust type filter all um columns are
// included.
func (f *MeasurementFilter) Validate() (start, end time.Time, umColumns []string, err error) {
	if f.StartDate == "" || f.EndDate == "" {
		return start, end, nil, validationError("start date and end date are required", "date_range", fmt.Sprintf("%q..%q", f.StartDate, f.EndDate))
	}

	start, err = time.ParseInLocation(DateTimeLayout, f.StartDate, time.UTC)
	if err != nil {
		return start, end, nil, validationError("invalid start date format, expected YYYY-MM-DD HH:MM:SS", "startDate", f.StartDate)
	}
	end, err = time.ParseInLocation(DateTimeLayout, f.EndDate, time.UTC)
	if err != nil {
		return start, end, nil, validationError("invalid end date format, expected YYYY-MM-DD HH:MM:SS", "endDate", f.EndDate)
	}
	if start.After(end) {
		return start, end, nil, validationError("start date must not be after end date", "date_range", fmt.Sprintf("%s..%s", f.StartDate, f.EndDate))
	}

	if len(f.DustTypes) == 0 {
		return start, end, []string{"um01", "um03", "um05"}, nil
	}

	seen := make(map[string]bool, len(f.DustTypes))
	for _, dt := range f.DustTypes {
		col, ok := dustTypeColumn[dt]
		if !ok {
			return start, end, nil, validationError("unknown dust type", "dustTypes", dt)
		}
		if !seen[col] {
			seen[col] = true
			umColumns = append(umColumns, col)
		}
	}
	return start, end, umColumns, nil
}

// GetAllMeasurements retrieves every measurement ordered by timestamp
// and room.
func (ds *DataStore) GetAllMeasurements(ctx context.Context) ([]Measurement, error) {
	var measurements []Measurement
	err := ds.DB.WithContext(ctx).
		Order("measurement_datetime ASC, room ASC").
		Find(&measurements).Error
	if err != nil {
		return nil, dbError(err, "get_all_measurements", "")
	}
	return measurements, nil
}

// SearchMeasurements retrieves measurements matching the filter. Rows
// are ordered by timestamp then room, and um columns excluded by the
// dust type filter are left nil.
func (ds *DataStore) SearchMeasurements(ctx context.Context, filter *MeasurementFilter) ([]Measurement, error) {
	start, end, umColumns, err := filter.Validate()
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(baseColumns)+len(umColumns))
	columns = append(columns, baseColumns...)
	columns = append(columns, umColumns...)

	query := ds.DB.WithContext(ctx).
		Model(&Measurement{}).
		Select(columns).
		Where("measurement_datetime >= ? AND measurement_datetime <= ?", start, end)

	if len(filter.Rooms) > 0 {
		query = query.Where("room IN ?", filter.Rooms)
	}
	if len(filter.Areas) > 0 {
		query = query.Where("area IN ?", filter.Areas)
	}
	if len(filter.Locations) > 0 {
		query = query.Where("location_name IN ?", filter.Locations)
	}

	var measurements []Measurement
	err = query.Order("measurement_datetime ASC, room ASC").Find(&measurements).Error
	if err != nil {
		return nil, dbError(err, "search_measurements", "",
			"start_date", filter.StartDate,
			"end_date", filter.EndDate)
	}
	return measurements, nil
}

// GetMeasurementLocations retrieves the distinct room/area/location
// tuples that have measurements on record, optionally restricted to a
// set of rooms or areas.
func (ds *DataStore) GetMeasurementLocations(ctx context.Context, rooms, areas []string) ([]MeasurementLocation, error) {
	query := ds.DB.WithContext(ctx).
		Model(&Measurement{}).
		Distinct("room", "area", "location_name").
		Order("room ASC, area ASC, location_name ASC")

	if len(rooms) > 0 {
		query = query.Where("room IN ?", rooms)
	}
	if len(areas) > 0 {
		query = query.Where("area IN ?", areas)
	}

	var locations []MeasurementLocation
	if err := query.Find(&locations).Error; err != nil {
		return nil, dbError(err, "get_measurement_locations", "")
	}
	return locations, nil
}

// SaveMeasurement inserts a new measurement record.
func (ds *DataStore) SaveMeasurement(ctx context.Context, m *Measurement) error {
	if err := ds.DB.WithContext(ctx).Create(m).Error; err != nil {
		return dbError(err, "save_measurement", "",
			"room", m.Room,
			"location", m.LocationName)
	}
	return nil
}

package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory database with the schema migrated.
func setupTestDB(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	require.NoError(t, db.AutoMigrate(&Measurement{}, &RoomDustSafetyLimit{}))

	return &DataStore{DB: db}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func seedMeasurements(t *testing.T, ds *DataStore, measurements []Measurement) {
	t.Helper()
	for i := range measurements {
		require.NoError(t, ds.DB.Create(&measurements[i]).Error)
	}
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(DateTimeLayout, value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func TestSearchMeasurementsDateRangeInclusive(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{MeasurementDatetime: ts(t, "2025-03-01 00:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 1},
		{MeasurementDatetime: ts(t, "2025-03-02 12:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 2},
		{MeasurementDatetime: ts(t, "2025-03-03 23:59:59"), Room: "R1", Area: "A", LocationName: "L1", Count: 3},
		{MeasurementDatetime: ts(t, "2025-03-04 00:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 4},
	})

	results, err := ds.SearchMeasurements(context.Background(), &MeasurementFilter{
		StartDate: "2025-03-01 00:00:00",
		EndDate:   "2025-03-03 23:59:59",
	})
	require.NoError(t, err)

	// Both boundary rows are included, the row just past the end is not.
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Count)
	assert.Equal(t, 3, results[2].Count)
}

func TestSearchMeasurementsValidation(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	tests := []struct {
		name   string
		filter MeasurementFilter
	}{
		{"missing start date", MeasurementFilter{EndDate: "2025-03-01 00:00:00"}},
		{"missing end date", MeasurementFilter{StartDate: "2025-03-01 00:00:00"}},
		{"unparseable start date", MeasurementFilter{StartDate: "01/03/2025", EndDate: "2025-03-02 00:00:00"}},
		{"unparseable end date", MeasurementFilter{StartDate: "2025-03-01 00:00:00", EndDate: "not-a-date"}},
		{"start after end", MeasurementFilter{StartDate: "2025-03-02 00:00:00", EndDate: "2025-03-01 00:00:00"}},
		{"unknown dust type", MeasurementFilter{StartDate: "2025-03-01 00:00:00", EndDate: "2025-03-02 00:00:00", DustTypes: []float64{1.0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ds.SearchMeasurements(context.Background(), &tc.filter)
			require.Error(t, err)
		})
	}
}

func TestSearchMeasurementsEmptyFiltersMatchEverything(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{MeasurementDatetime: ts(t, "2025-03-01 08:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 1},
		{MeasurementDatetime: ts(t, "2025-03-01 09:00:00"), Room: "R2", Area: "B", LocationName: "L2", Count: 2},
	})

	// Explicit empty slices behave the same as omitted filters.
	results, err := ds.SearchMeasurements(context.Background(), &MeasurementFilter{
		StartDate: "2025-03-01 00:00:00",
		EndDate:   "2025-03-01 23:59:59",
		Rooms:     []string{},
		Areas:     []string{},
		Locations: []string{},
		DustTypes: []float64{},
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchMeasurementsRoomAndLocationFilters(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{MeasurementDatetime: ts(t, "2025-03-01 08:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 1},
		{MeasurementDatetime: ts(t, "2025-03-01 09:00:00"), Room: "R2", Area: "B", LocationName: "L2", Count: 2},
		{MeasurementDatetime: ts(t, "2025-03-01 10:00:00"), Room: "R1", Area: "A", LocationName: "L3", Count: 3},
	})

	results, err := ds.SearchMeasurements(context.Background(), &MeasurementFilter{
		StartDate: "2025-03-01 00:00:00",
		EndDate:   "2025-03-01 23:59:59",
		Rooms:     []string{"R1"},
		Locations: []string{"L3"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Count)
}

func TestSearchMeasurementsDustTypeProjection(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{
			MeasurementDatetime: ts(t, "2025-03-01 08:00:00"),
			Room:                "R1", Area: "A", LocationName: "L1",
			Count: 1,
			Um01:  intPtr(120), Um03: intPtr(45), Um05: intPtr(8),
		},
	})

	results, err := ds.SearchMeasurements(context.Background(), &MeasurementFilter{
		StartDate: "2025-03-01 00:00:00",
		EndDate:   "2025-03-01 23:59:59",
		DustTypes: []float64{0.1, 0.5},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Only the requested particle sizes are populated.
	require.NotNil(t, results[0].Um01)
	assert.Equal(t, 120, *results[0].Um01)
	assert.Nil(t, results[0].Um03)
	require.NotNil(t, results[0].Um05)
	assert.Equal(t, 8, *results[0].Um05)
}

func TestSearchMeasurementsOrdering(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{MeasurementDatetime: ts(t, "2025-03-01 09:00:00"), Room: "R2", Area: "A", LocationName: "L1", Count: 3},
		{MeasurementDatetime: ts(t, "2025-03-01 09:00:00"), Room: "R1", Area: "A", LocationName: "L1", Count: 2},
		{MeasurementDatetime: ts(t, "2025-03-01 08:00:00"), Room: "R9", Area: "A", LocationName: "L1", Count: 1},
	})

	results, err := ds.SearchMeasurements(context.Background(), &MeasurementFilter{
		StartDate: "2025-03-01 00:00:00",
		EndDate:   "2025-03-01 23:59:59",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Timestamp ascending first, room breaks the tie.
	assert.Equal(t, 1, results[0].Count)
	assert.Equal(t, 2, results[1].Count)
	assert.Equal(t, 3, results[2].Count)
}

func TestGetMeasurementLocationsDistinct(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	seedMeasurements(t, ds, []Measurement{
		{MeasurementDatetime: ts(t, "2025-03-01 08:00:00"), Room: "R1", Area: "A", LocationName: "L1"},
		{MeasurementDatetime: ts(t, "2025-03-01 09:00:00"), Room: "R1", Area: "A", LocationName: "L1"},
		{MeasurementDatetime: ts(t, "2025-03-01 10:00:00"), Room: "R2", Area: "B", LocationName: "L2"},
	})

	locations, err := ds.GetMeasurementLocations(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, MeasurementLocation{Room: "R1", Area: "A", LocationName: "L1"}, locations[0])
	assert.Equal(t, MeasurementLocation{Room: "R2", Area: "B", LocationName: "L2"}, locations[1])

	filtered, err := ds.GetMeasurementLocations(context.Background(), []string{"R2"}, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "L2", filtered[0].LocationName)
}

func TestSaveMeasurement(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	m := &Measurement{
		MeasurementDatetime: ts(t, "2025-03-01 08:00:00"),
		Room:                "R1", Area: "A", LocationName: "L1",
		Count: 10,
		Um01:  intPtr(100), Um03: intPtr(30), Um05: intPtr(5),
		RunningState: 1,
	}
	require.NoError(t, ds.SaveMeasurement(context.Background(), m))
	assert.NotZero(t, m.MeasurementID)

	all, err := ds.GetAllMeasurements(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "L1", all[0].LocationName)
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

func TestCountAlarms(t *testing.T) {
	t.Parallel()

	measurements := []datastore.Measurement{
		{AlarmHigh: 0},
		{AlarmHigh: 1},
		{AlarmHigh: 2},
	}
	assert.Equal(t, 2, CountAlarms(measurements))
}

func TestMostExcessiveDustType(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limits := map[string]datastore.RoomDustSafetyLimit{
		"R1": {
			Room:    "R1",
			UCLUm01: floatPtr(100),
			UCLUm03: floatPtr(50),
		},
	}

	// um01 exceeds twice, um03 once.
	measurements := []datastore.Measurement{
		measurementAt("R1", "L1", when, intPtr(150), intPtr(40), nil),
		measurementAt("R1", "L1", when, intPtr(120), intPtr(60), nil),
		measurementAt("R1", "L1", when, intPtr(90), intPtr(30), nil),
	}

	dustType, ok := MostExcessiveDustType(measurements, limits)
	require.True(t, ok)
	assert.Equal(t, 0.1, dustType)
}

func TestMostExcessiveDustTypeTieBreaksToSmallerSize(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limits := map[string]datastore.RoomDustSafetyLimit{
		"R1": {
			Room:    "R1",
			UCLUm03: floatPtr(50),
			UCLUm05: floatPtr(10),
		},
	}

	measurements := []datastore.Measurement{
		measurementAt("R1", "L1", when, nil, intPtr(60), intPtr(20)),
	}

	dustType, ok := MostExcessiveDustType(measurements, limits)
	require.True(t, ok)
	assert.Equal(t, 0.3, dustType)
}

func TestMostExcessiveDustTypeNoExceedances(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limits := map[string]datastore.RoomDustSafetyLimit{
		"R1": {Room: "R1", UCLUm01: floatPtr(1000)},
	}

	measurements := []datastore.Measurement{
		measurementAt("R1", "L1", when, intPtr(10), nil, nil),
		// No limits configured for this room at all.
		measurementAt("R2", "L2", when, intPtr(99999), nil, nil),
	}

	_, ok := MostExcessiveDustType(measurements, limits)
	assert.False(t, ok)
}

func TestExceedanceTallySkipsUnconfiguredSizes(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limits := map[string]datastore.RoomDustSafetyLimit{
		"R1": {Room: "R1", UCLUm01: floatPtr(10)},
	}

	// um03 has no UCL, so the huge value counts for nothing.
	measurements := []datastore.Measurement{
		measurementAt("R1", "L1", when, intPtr(20), intPtr(99999), nil),
	}

	tally := ExceedanceTally(measurements, limits)
	assert.Equal(t, map[float64]int{0.1: 1}, tally)
}

package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

func TestSummarizeIndexBasedQuartiles(t *testing.T) {
	t.Parallel()

	// Sorted input is [1,2,3,5,7,8,9], n=7: q1 at index 1, median at
	// index 3, q3 at index 5.
	stats, ok := Summarize([]int{7, 1, 5, 3, 9, 2, 8})
	require.True(t, ok)
	assert.Equal(t, BoxPlotStats{Min: 1, Q1: 2, Median: 5, Q3: 8, Max: 9}, stats)
}

func TestSummarizeOrderIndependent(t *testing.T) {
	t.Parallel()

	values := []int{14, 3, 99, 27, 3, 56, 72, 8, 41}
	want, ok := Summarize(values)
	require.True(t, ok)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]int, len(values))
		copy(shuffled, values)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, ok := Summarize(shuffled)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []int{5, 1, 3}
	_, ok := Summarize(values)
	require.True(t, ok)
	assert.Equal(t, []int{5, 1, 3}, values)
}

func TestSummarizeEdgeSizes(t *testing.T) {
	t.Parallel()

	_, ok := Summarize(nil)
	assert.False(t, ok)

	single, ok := Summarize([]int{4})
	require.True(t, ok)
	assert.Equal(t, BoxPlotStats{Min: 4, Q1: 4, Median: 4, Q3: 4, Max: 4}, single)

	pair, ok := Summarize([]int{9, 2})
	require.True(t, ok)
	assert.Equal(t, BoxPlotStats{Min: 2, Q1: 2, Median: 9, Q3: 9, Max: 9}, pair)
}

func TestLocationBoxPlotsSortedByPaddedName(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := Pivot([]datastore.Measurement{
		measurementAt("R1", "12", when, intPtr(10), nil, nil),
		measurementAt("R1", "7", when, intPtr(20), nil, nil),
		measurementAt("R1", "102", when, intPtr(30), nil, nil),
	})

	plots := LocationBoxPlots(records)
	require.Len(t, plots, 3)
	assert.Equal(t, "7", plots[0].LocationName)
	assert.Equal(t, "12", plots[1].LocationName)
	assert.Equal(t, "102", plots[2].LocationName)
}

func TestMonthlyBoxPlotsBucketsByMonth(t *testing.T) {
	t.Parallel()

	records := Pivot([]datastore.Measurement{
		measurementAt("R1", "L1", time.Date(2025, 2, 27, 8, 0, 0, 0, time.UTC), intPtr(5), nil, nil),
		measurementAt("R1", "L1", time.Date(2025, 2, 27, 16, 0, 0, 0, time.UTC), intPtr(9), nil, nil),
		measurementAt("R1", "L1", time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), intPtr(7), nil, nil),
	})

	months := MonthlyBoxPlots(records)
	require.Len(t, months, 2)

	feb := months["2025-02"]
	require.Len(t, feb, 1)
	assert.Equal(t, "2025-02-27", feb[0].Date)
	assert.Equal(t, 5, feb[0].Stats.Min)
	assert.Equal(t, 9, feb[0].Stats.Max)

	mar := months["2025-03"]
	require.Len(t, mar, 1)
	assert.Equal(t, "2025-03-01", mar[0].Date)
}

func TestValuesByDayDropsTimeOfDay(t *testing.T) {
	t.Parallel()

	records := Pivot([]datastore.Measurement{
		measurementAt("R1", "L1", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), intPtr(1), nil, nil),
		measurementAt("R1", "L1", time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC), intPtr(2), nil, nil),
	})

	days := ValuesByDay(records)
	require.Len(t, days, 1)
	assert.ElementsMatch(t, []int{1, 2}, days["2025-03-01"])
}

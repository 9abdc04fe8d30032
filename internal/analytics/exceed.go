package analytics

import (
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

// CountAlarms counts measurements whose alarm_high flag is set. The
// flag is precomputed by the ingestion path and is not rederived here.
func CountAlarms(measurements []datastore.Measurement) int {
	count := 0
	for i := range measurements {
		if measurements[i].AlarmHigh != 0 {
			count++
		}
	}
	return count
}

// ExceedanceTally counts UCL exceedances per dust type across a set of
// measurements. Rooms without a configured UCL for a size contribute
// nothing for that size.
func ExceedanceTally(measurements []datastore.Measurement, limits map[string]datastore.RoomDustSafetyLimit) map[float64]int {
	tally := make(map[float64]int, len(DustTypes))
	for i := range measurements {
		m := &measurements[i]
		limit, ok := limits[m.Room]
		if !ok {
			continue
		}
		for j, value := range dustColumns(m) {
			if value == nil {
				continue
			}
			ucl := ThresholdLine(&limit, ThresholdUCL, DustTypes[j])
			if ucl == nil {
				continue
			}
			if float64(*value) > *ucl {
				tally[DustTypes[j]]++
			}
		}
	}
	return tally
}

// MostExcessiveDustType returns the particle size that exceeds its UCL
// most often. Ties resolve to the smaller size. Returns false when no
// measurement exceeds any limit.
func MostExcessiveDustType(measurements []datastore.Measurement, limits map[string]datastore.RoomDustSafetyLimit) (float64, bool) {
	tally := ExceedanceTally(measurements, limits)

	best, bestCount := 0.0, 0
	for _, dt := range DustTypes {
		if tally[dt] > bestCount {
			best, bestCount = dt, tally[dt]
		}
	}
	if bestCount == 0 {
		return 0, false
	}
	return best, true
}

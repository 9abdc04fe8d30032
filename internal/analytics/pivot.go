// Package analytics reshapes raw dust measurements into chart-ready
// series. All functions here are pure and operate on already-fetched
// in-memory rows.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

// DustTypes enumerates the monitored particle sizes in micrometers, in
// the canonical order used for tie-breaking and series layout.
var DustTypes = []float64{0.1, 0.3, 0.5}

// DustTypeLabel returns the two-digit scaled label for a particle size,
// e.g. 0.3 -> "03". The label matches the um column suffixes.
func DustTypeLabel(dustType float64) string {
	return fmt.Sprintf("%02d", int(math.Round(dustType*10)))
}

// LongRecord is one particle-size reading extracted from a wide
// measurement row. A measurement with two populated um columns yields
// two long records.
type LongRecord struct {
	Room                string    `json:"room"`
	Area                string    `json:"area"`
	LocationName        string    `json:"location_name"`
	MeasurementDatetime time.Time `json:"measurement_datetime"`
	Count               int       `json:"count"`
	RunningState        int       `json:"running_state"`
	AlarmHigh           int       `json:"alarm_high"`
	DustType            float64   `json:"dust_type"`
	DustValue           int       `json:"dust_value"`
}

// dustColumns returns the particle values of a measurement in canonical
// dust type order. Nil entries mean the size was not measured.
func dustColumns(m *datastore.Measurement) [3]*int {
	return [3]*int{m.Um01, m.Um03, m.Um05}
}

// Pivot converts wide measurement rows into long records, one per
// populated particle column. Rows with no particle values contribute
// nothing rather than failing the whole batch.
func Pivot(measurements []datastore.Measurement) []LongRecord {
	records := make([]LongRecord, 0, len(measurements)*len(DustTypes))
	for i := range measurements {
		m := &measurements[i]
		for j, value := range dustColumns(m) {
			if value == nil {
				continue
			}
			records = append(records, LongRecord{
				Room:                m.Room,
				Area:                m.Area,
				LocationName:        m.LocationName,
				MeasurementDatetime: m.MeasurementDatetime,
				Count:               m.Count,
				RunningState:        m.RunningState,
				AlarmHigh:           m.AlarmHigh,
				DustType:            DustTypes[j],
				DustValue:           *value,
			})
		}
	}
	return records
}

// FilterRecords returns the long records matching the given room, area
// and dust type. Zero values ("" or 0) leave that dimension unfiltered.
func FilterRecords(records []LongRecord, room, area string, dustType float64) []LongRecord {
	filtered := make([]LongRecord, 0, len(records))
	for _, r := range records {
		if room != "" && r.Room != room {
			continue
		}
		if area != "" && r.Area != area {
			continue
		}
		if dustType != 0 && r.DustType != dustType {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

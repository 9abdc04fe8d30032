package analytics

import (
	"sort"
	"strings"
)

const (
	// DayLayout keys daily groups.
	DayLayout = "2006-01-02"
	// MonthLayout keys monthly buckets.
	MonthLayout = "2006-01"
)

// ValuesByLocation collects the particle values of each location.
func ValuesByLocation(records []LongRecord) map[string][]int {
	groups := make(map[string][]int)
	for _, r := range records {
		groups[r.LocationName] = append(groups[r.LocationName], r.DustValue)
	}
	return groups
}

// CountByLocation tallies how many long records each location has.
func CountByLocation(records []LongRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.LocationName]++
	}
	return counts
}

// ValuesByDay collects particle values per calendar day, keyed by the
// UTC date with the time of day dropped.
func ValuesByDay(records []LongRecord) map[string][]int {
	groups := make(map[string][]int)
	for _, r := range records {
		day := r.MeasurementDatetime.UTC().Format(DayLayout)
		groups[day] = append(groups[day], r.DustValue)
	}
	return groups
}

// BucketDaysByMonth partitions daily groups into calendar months using
// the YYYY-MM prefix of each day key.
func BucketDaysByMonth(days map[string][]int) map[string]map[string][]int {
	months := make(map[string]map[string][]int)
	for day, values := range days {
		month := day
		if len(day) >= len(MonthLayout) {
			month = day[:len(MonthLayout)]
		}
		if months[month] == nil {
			months[month] = make(map[string][]int)
		}
		months[month][day] = values
	}
	return months
}

// padLocation left-pads a location name with zeros to three characters
// so numeric names like "7" sort before "12".
func padLocation(name string) string {
	if len(name) >= 3 {
		return name
	}
	return strings.Repeat("0", 3-len(name)) + name
}

// SortedLocationKeys returns the keys of a per-location group in
// display order, using zero-padded comparison.
func SortedLocationKeys[V any](groups map[string]V) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return padLocation(keys[i]) < padLocation(keys[j])
	})
	return keys
}

// SortedKeys returns map keys in plain lexicographic order, which is
// chronological for day and month keys.
func SortedKeys[V any](groups map[string]V) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

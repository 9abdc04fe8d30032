package analytics

import (
	"sort"
)

// BoxPlotStats holds the five-number summary for one box.
type BoxPlotStats struct {
	Min    int `json:"min"`
	Q1     int `json:"q1"`
	Median int `json:"median"`
	Q3     int `json:"q3"`
	Max    int `json:"max"`
}

// Summarize computes index-based box plot statistics for one group of
// values. The quartiles pick elements at floor(n/4), floor(n/2) and
// floor(3n/4) of the sorted values, with no interpolation. Returns
// false for an empty group.
func Summarize(values []int) (BoxPlotStats, bool) {
	n := len(values)
	if n == 0 {
		return BoxPlotStats{}, false
	}

	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	return BoxPlotStats{
		Min:    sorted[0],
		Q1:     sorted[n/4],
		Median: sorted[n/2],
		Q3:     sorted[3*n/4],
		Max:    sorted[n-1],
	}, true
}

// LocationBoxPlot pairs a location with its five-number summary.
type LocationBoxPlot struct {
	LocationName string       `json:"location_name"`
	Stats        BoxPlotStats `json:"stats"`
}

// LocationBoxPlots computes one box per location, ordered by
// zero-padded location name.
func LocationBoxPlots(records []LongRecord) []LocationBoxPlot {
	groups := ValuesByLocation(records)

	plots := make([]LocationBoxPlot, 0, len(groups))
	for _, name := range SortedLocationKeys(groups) {
		stats, ok := Summarize(groups[name])
		if !ok {
			continue
		}
		plots = append(plots, LocationBoxPlot{LocationName: name, Stats: stats})
	}
	return plots
}

// DailyBoxPlot pairs a calendar day with its five-number summary.
type DailyBoxPlot struct {
	Date  string       `json:"date"`
	Stats BoxPlotStats `json:"stats"`
}

// MonthlyBoxPlots groups a location's values by day and buckets the
// resulting boxes by month for month-paginated charts. Months and the
// days inside them are in chronological order.
func MonthlyBoxPlots(records []LongRecord) map[string][]DailyBoxPlot {
	months := BucketDaysByMonth(ValuesByDay(records))

	result := make(map[string][]DailyBoxPlot, len(months))
	for month, days := range months {
		plots := make([]DailyBoxPlot, 0, len(days))
		for _, day := range SortedKeys(days) {
			stats, ok := Summarize(days[day])
			if !ok {
				continue
			}
			plots = append(plots, DailyBoxPlot{Date: day, Stats: stats})
		}
		result[month] = plots
	}
	return result
}

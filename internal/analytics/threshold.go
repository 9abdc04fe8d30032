package analytics

import (
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

// ThresholdKind selects which of the two configured limits to read.
type ThresholdKind string

const (
	// ThresholdUSL is the upper specification limit.
	ThresholdUSL ThresholdKind = "usl"
	// ThresholdUCL is the upper control limit.
	ThresholdUCL ThresholdKind = "ucl"
)

// ThresholdLine resolves the threshold value for a room and particle
// size. A nil result means no line is drawn, it is never substituted
// with zero.
func ThresholdLine(limit *datastore.RoomDustSafetyLimit, kind ThresholdKind, dustType float64) *float64 {
	if limit == nil {
		return nil
	}

	switch kind + ThresholdKind(DustTypeLabel(dustType)) {
	case "usl01":
		return limit.USLUm01
	case "usl03":
		return limit.USLUm03
	case "usl05":
		return limit.USLUm05
	case "ucl01":
		return limit.UCLUm01
	case "ucl03":
		return limit.UCLUm03
	case "ucl05":
		return limit.UCLUm05
	default:
		return nil
	}
}

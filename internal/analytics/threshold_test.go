package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
)

func TestThresholdLine(t *testing.T) {
	t.Parallel()

	limit := &datastore.RoomDustSafetyLimit{
		Room:    "Room A",
		USLUm03: floatPtr(500),
	}

	// The configured USL resolves, the unconfigured UCL yields no line.
	usl := ThresholdLine(limit, ThresholdUSL, 0.3)
	require.NotNil(t, usl)
	assert.Equal(t, 500.0, *usl)

	assert.Nil(t, ThresholdLine(limit, ThresholdUCL, 0.3))
	assert.Nil(t, ThresholdLine(limit, ThresholdUSL, 0.1))
}

func TestThresholdLineNilLimit(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ThresholdLine(nil, ThresholdUSL, 0.3))
}

func TestThresholdLineUnknownDustType(t *testing.T) {
	t.Parallel()

	limit := &datastore.RoomDustSafetyLimit{
		Room:    "Room A",
		USLUm01: floatPtr(100),
	}
	assert.Nil(t, ThresholdLine(limit, ThresholdUSL, 1.0))
}

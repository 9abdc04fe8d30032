package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

// stubStore implements datastore.Interface with canned responses.
type stubStore struct {
	mu           sync.Mutex
	measurements []datastore.Measurement
	limits       []datastore.RoomDustSafetyLimit
	searchErr    error
	searchCalls  int
}

func (s *stubStore) Open() error                        { return nil }
func (s *stubStore) Close() error                       { return nil }
func (s *stubStore) Optimize(ctx context.Context) error { return nil }

func (s *stubStore) SearchMeasurements(ctx context.Context, filter *datastore.MeasurementFilter) ([]datastore.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.measurements, nil
}

func (s *stubStore) GetAllMeasurements(ctx context.Context) ([]datastore.Measurement, error) {
	return s.measurements, nil
}

func (s *stubStore) GetMeasurementLocations(ctx context.Context, rooms, areas []string) ([]datastore.MeasurementLocation, error) {
	return nil, nil
}

func (s *stubStore) SaveMeasurement(ctx context.Context, m *datastore.Measurement) error {
	return nil
}

func (s *stubStore) GetAllRoomLimits(ctx context.Context) ([]datastore.RoomDustSafetyLimit, error) {
	return s.limits, nil
}

func (s *stubStore) GetRoomLimit(ctx context.Context, room string) (*datastore.RoomDustSafetyLimit, error) {
	return nil, nil
}

func (s *stubStore) CreateRoomLimit(ctx context.Context, limit *datastore.RoomDustSafetyLimit) error {
	return nil
}

func (s *stubStore) UpdateRoomLimit(ctx context.Context, limit *datastore.RoomDustSafetyLimit) error {
	return nil
}

func (s *stubStore) DeleteRoomLimit(ctx context.Context, room string) error {
	return nil
}

func (s *stubStore) setSearchErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchErr = err
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestPollBuildsSnapshot(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		measurements: []datastore.Measurement{
			{Room: "R1", LocationName: "L1", Um01: intPtr(150), AlarmHigh: 1},
			{Room: "R1", LocationName: "L1", Um01: intPtr(50)},
			{Room: "R2", LocationName: "L1", Um01: intPtr(20)},
		},
		limits: []datastore.RoomDustSafetyLimit{
			{Room: "R1", UCLUm01: floatPtr(100)},
		},
	}
	p := New(store, 10, nil)

	p.Poll(context.Background())

	snapshot := p.Snapshot()
	require.NotNil(t, snapshot)
	assert.Len(t, snapshot.Measurements, 3)
	// Same location name in two rooms counts twice.
	assert.Equal(t, 2, snapshot.LocationCount)
	assert.Equal(t, 1, snapshot.AlarmCount)
	require.NotNil(t, snapshot.MostExcessiveDustType)
	assert.Equal(t, 0.1, *snapshot.MostExcessiveDustType)
}

func TestPollFailureKeepsLastGoodSnapshot(t *testing.T) {
	t.Parallel()

	store := &stubStore{
		measurements: []datastore.Measurement{{Room: "R1", Um01: intPtr(10)}},
	}
	p := New(store, 10, nil)

	p.Poll(context.Background())
	first := p.Snapshot()
	require.NotNil(t, first)

	store.setSearchErr(errors.Newf("connection lost").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build())
	p.Poll(context.Background())

	// The failed poll did not clear or replace the snapshot.
	assert.Same(t, first, p.Snapshot())
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	p := New(store, 10, nil)

	older := &Snapshot{FetchedAt: time.Now().Add(-time.Minute)}
	newer := &Snapshot{FetchedAt: time.Now()}

	// Sequence 2 resolves before sequence 1.
	require.True(t, p.apply(2, newer))
	assert.False(t, p.apply(1, older))

	assert.Same(t, newer, p.Snapshot())
}

func TestStartSchedulesAndStops(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	p := New(store, 1, nil)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	// The immediate poll ran before the first tick.
	store.mu.Lock()
	calls := store.searchCalls
	store.mu.Unlock()
	assert.GreaterOrEqual(t, calls, 1)

	require.Error(t, p.Start(context.Background()), "second start must fail")
}

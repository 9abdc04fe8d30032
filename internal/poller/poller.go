// Package poller keeps a periodically refreshed snapshot of recent
// measurements for dashboard views.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/analytics"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/logging"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability/metrics"
)

// window is how far back each poll looks for measurements.
const window = 24 * time.Hour

// Snapshot is the last successfully fetched dashboard state. Consumers
// get the retained snapshot unchanged when a poll fails.
type Snapshot struct {
	FetchedAt             time.Time               `json:"fetched_at"`
	Measurements          []datastore.Measurement `json:"measurements"`
	LocationCount         int                     `json:"location_count"`
	AlarmCount            int                     `json:"alarm_count"`
	MostExcessiveDustType *float64                `json:"most_excessive_dust_type"`
}

// Poller refreshes the snapshot on a fixed schedule. Poll results are
// applied under a monotonic sequence guard so a slow fetch can never
// overwrite a newer one.
type Poller struct {
	ds       datastore.Interface
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.PollerMetrics

	scheduler *cron.Cron
	seq       atomic.Uint64

	mu          sync.RWMutex
	lastApplied uint64
	snapshot    *Snapshot
}

// New creates a poller with the given refresh interval in seconds.
func New(ds datastore.Interface, intervalSeconds int, pollerMetrics *metrics.PollerMetrics) *Poller {
	logger := logging.ForService("poller")
	if logger == nil {
		logger = slog.Default().With("service", "poller")
	}
	return &Poller{
		ds:       ds,
		interval: time.Duration(intervalSeconds) * time.Second,
		logger:   logger,
		metrics:  pollerMetrics,
	}
}

// Start begins the polling schedule. An immediate poll runs before the
// first scheduled tick so consumers do not wait a full interval.
func (p *Poller) Start(ctx context.Context) error {
	if p.scheduler != nil {
		return fmt.Errorf("poller already started")
	}

	p.Poll(ctx)

	p.scheduler = cron.New()
	_, err := p.scheduler.AddFunc(fmt.Sprintf("@every %s", p.interval), func() {
		p.Poll(ctx)
	})
	if err != nil {
		p.scheduler = nil
		return fmt.Errorf("failed to schedule poll: %w", err)
	}
	p.scheduler.Start()

	p.logger.Info("Poller started", "interval", p.interval)
	return nil
}

// Stop halts the schedule and waits for a running poll to finish.
func (p *Poller) Stop() {
	if p.scheduler == nil {
		return
	}
	<-p.scheduler.Stop().Done()
	p.scheduler = nil
	p.logger.Info("Poller stopped")
}

// Snapshot returns the last good snapshot, or nil before the first
// successful poll.
func (p *Poller) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Poll fetches the recent measurement window and applies the result
// under the sequence guard.
func (p *Poller) Poll(ctx context.Context) {
	seq := p.seq.Add(1)
	start := time.Now()

	snapshot, err := p.fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		// Keep the retained snapshot, consumers see stale data over none.
		p.logger.Error("Poll failed, keeping last good snapshot",
			"seq", seq,
			"error", err)
		if p.metrics != nil {
			p.metrics.RecordPoll("error", elapsed.Seconds())
		}
		return
	}

	applied := p.apply(seq, snapshot)
	if p.metrics != nil {
		p.metrics.RecordPoll("success", elapsed.Seconds())
		if applied {
			p.metrics.SetLastSuccess(float64(snapshot.FetchedAt.Unix()))
		}
	}
}

// fetch reads the measurement window and derives the summary fields.
func (p *Poller) fetch(ctx context.Context) (*Snapshot, error) {
	now := time.Now().UTC()
	filter := &datastore.MeasurementFilter{
		StartDate: now.Add(-window).Format(datastore.DateTimeLayout),
		EndDate:   now.Format(datastore.DateTimeLayout),
	}

	measurements, err := p.ds.SearchMeasurements(ctx, filter)
	if err != nil {
		return nil, err
	}

	allLimits, err := p.ds.GetAllRoomLimits(ctx)
	if err != nil {
		return nil, err
	}
	limits := make(map[string]datastore.RoomDustSafetyLimit, len(allLimits))
	for _, limit := range allLimits {
		limits[limit.Room] = limit
	}

	locations := make(map[[2]string]struct{})
	for _, m := range measurements {
		locations[[2]string{m.Room, m.LocationName}] = struct{}{}
	}

	snapshot := &Snapshot{
		FetchedAt:     now,
		Measurements:  measurements,
		LocationCount: len(locations),
		AlarmCount:    analytics.CountAlarms(measurements),
	}
	if dustType, ok := analytics.MostExcessiveDustType(measurements, limits); ok {
		snapshot.MostExcessiveDustType = &dustType
	}
	return snapshot, nil
}

// apply installs a poll result unless a newer one has already been
// applied. Returns whether the snapshot was installed.
func (p *Poller) apply(seq uint64, snapshot *Snapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.lastApplied {
		p.logger.Debug("Discarding stale poll response",
			"seq", seq,
			"last_applied", p.lastApplied)
		if p.metrics != nil {
			p.metrics.RecordStaleDrop()
		}
		return false
	}

	p.lastApplied = seq
	p.snapshot = snapshot
	return true
}

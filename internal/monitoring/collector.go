// Package monitoring summarizes the run journal for the status command.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/housekg-scraper/internal/model"
	"github.com/sells-group/housekg-scraper/internal/store"
)

// MetricsSnapshot is a point-in-time view of recent scrape health.
type MetricsSnapshot struct {
	RunsTotal    int     `json:"runs_total"`
	RunsComplete int     `json:"runs_complete"`
	RunsFailed   int     `json:"runs_failed"`
	RunsRunning  int     `json:"runs_running"`
	Listings     int     `json:"listings"`
	Failures     int     `json:"failures"`
	FailRate     float64 `json:"fail_rate"`

	CollectedAt time.Time `json:"collected_at"`
}

// Collector gathers metrics from the run journal.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector over the given journal.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect summarizes the most recent limit runs.
func (c *Collector) Collect(ctx context.Context, limit int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{CollectedAt: time.Now().UTC()}

	runs, err := c.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	snap.RunsTotal = len(runs)
	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			snap.RunsComplete++
		case model.RunStatusFailed:
			snap.RunsFailed++
		case model.RunStatusRunning:
			snap.RunsRunning++
		}
		snap.Listings += r.Listings
		snap.Failures += r.Failures
	}

	if total := snap.Listings + snap.Failures; total > 0 {
		snap.FailRate = float64(snap.Failures) / float64(total)
	}

	return snap, nil
}

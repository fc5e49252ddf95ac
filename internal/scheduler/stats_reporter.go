// Package scheduler runs the periodic background jobs of the serve mode.
package scheduler

import (
	"context"
	"time"

	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
	"github.com/DiasPedroQA/bookmark-converter/internal/stats"
)

// StatsReporter periodically logs a summary of the conversion counters so a
// long-running server leaves a usage trail without external metrics tooling.
type StatsReporter struct {
	metrics  *stats.Metrics
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewStatsReporter(metrics *stats.Metrics, log logger.Logger, interval time.Duration) *StatsReporter {
	return &StatsReporter{
		metrics:  metrics,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic reporting until Stop is called or ctx is canceled.
// A non-positive interval disables reporting entirely.
func (r *StatsReporter) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Debug("stats reporting disabled")
		return nil
	}
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Report()
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the reporter.
func (r *StatsReporter) Stop() {
	close(r.stopCh)
}

// Report logs the current counter snapshot. Quiet servers log at debug only.
func (r *StatsReporter) Report() {
	snap := r.metrics.Snapshot()

	var total uint64
	for _, n := range snap.Conversions {
		total += n
	}
	if total == 0 && len(snap.Failures) == 0 {
		r.logger.Debug("no conversions since startup")
		return
	}

	r.logger.Info("conversion activity",
		logger.Int("conversions", int(total)),
		logger.Int("warnings", int(snap.Warnings)),
		logger.Int("cache_hits", int(snap.CacheHits)),
		logger.Int("failures", failureTotal(snap.Failures)))
}

func failureTotal(failures map[string]uint64) int {
	var total uint64
	for _, n := range failures {
		total += n
	}
	return int(total)
}

// Package stats keeps in-memory counters for the serve mode. The conversion
// engine itself stays stateless; metrics live outside it.
package stats

import (
	"sync"
	"time"
)

// Metrics accumulates conversion counters. Safe for concurrent use.
type Metrics struct {
	mu             sync.RWMutex
	conversions    map[string]uint64 // "html->json" -> count
	failures       map[string]uint64 // error kind -> count
	warnings       uint64
	cacheHits      uint64
	lastConversion time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Conversions    map[string]uint64 `json:"conversions"`
	Failures       map[string]uint64 `json:"failures"`
	Warnings       uint64            `json:"warnings"`
	CacheHits      uint64            `json:"cache_hits"`
	LastConversion time.Time         `json:"last_conversion"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		conversions: make(map[string]uint64),
		failures:    make(map[string]uint64),
	}
}

// RecordConversion counts one successful conversion and its warnings.
func (m *Metrics) RecordConversion(from, to string, warnings int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conversions[from+"->"+to]++
	m.warnings += uint64(warnings)
	m.lastConversion = time.Now()
}

// RecordFailure counts one failed conversion by error kind.
func (m *Metrics) RecordFailure(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[kind]++
}

// RecordCacheHit counts one conversion served from the result cache.
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheHits++
}

// Total returns the number of successful conversions across directions.
func (m *Metrics) Total() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total uint64
	for _, n := range m.conversions {
		total += n
	}
	return total
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Conversions:    make(map[string]uint64, len(m.conversions)),
		Failures:       make(map[string]uint64, len(m.failures)),
		Warnings:       m.warnings,
		CacheHits:      m.cacheHits,
		LastConversion: m.lastConversion,
	}
	for k, v := range m.conversions {
		snap.Conversions[k] = v
	}
	for k, v := range m.failures {
		snap.Failures[k] = v
	}
	return snap
}

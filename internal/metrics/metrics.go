// Package metrics records join statistics as Prometheus collectors and
// writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/mjoin/internal/join"
)

// Emitted row kinds.
const (
	KindMatched        = "matched"
	KindLeftUnmatched  = "left_unmatched"
	KindRightUnmatched = "right_unmatched"
)

// Metrics holds the collectors for one process, registered on a private
// registry.
type Metrics struct {
	RowsReadTotal      *prometheus.CounterVec
	RowsEmittedTotal   *prometheus.CounterVec
	LastRunDuration    prometheus.Gauge
	LastRunSuccessTime prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		RowsReadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mjoin_rows_read_total",
				Help: "Data rows read from each input, header excluded.",
			},
			[]string{"side"},
		),
		RowsEmittedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mjoin_rows_emitted_total",
				Help: "Rows written to the output by kind (matched, left_unmatched, right_unmatched).",
			},
			[]string{"kind"},
		),
		LastRunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mjoin_last_run_duration_seconds",
				Help: "Wall time of the most recent join in seconds.",
			},
		),
		LastRunSuccessTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mjoin_last_run_success_timestamp_seconds",
				Help: "Unix time the most recent successful join finished.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsReadTotal,
		m.RowsEmittedTotal,
		m.LastRunDuration,
		m.LastRunSuccessTime,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe adds the counts of a finished join. finished is only recorded as
// the last success time when runErr is nil.
func (m *Metrics) Observe(stats join.Stats, elapsed time.Duration, finished time.Time, runErr error) {
	m.RowsReadTotal.WithLabelValues("left").Add(float64(stats.LeftRecords))
	m.RowsReadTotal.WithLabelValues("right").Add(float64(stats.RightRecords))

	matched := stats.Emitted - stats.LeftUnmatched - stats.RightUnmatched
	m.RowsEmittedTotal.WithLabelValues(KindMatched).Add(float64(matched))
	m.RowsEmittedTotal.WithLabelValues(KindLeftUnmatched).Add(float64(stats.LeftUnmatched))
	m.RowsEmittedTotal.WithLabelValues(KindRightUnmatched).Add(float64(stats.RightUnmatched))

	m.LastRunDuration.Set(elapsed.Seconds())
	if runErr == nil {
		m.LastRunSuccessTime.Set(float64(finished.Unix()))
	}
}

// WriteTextfile writes every collector to path. The file is written to a
// temporary name and renamed so a collector never reads a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

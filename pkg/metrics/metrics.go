// Package metrics records what scan runs did. depnotify is a batch job, so
// the numbers are pushed to a Prometheus Pushgateway rather than scraped.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Result labels
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultDryRun = "dry_run"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	scans         *prometheus.CounterVec
	outdated      *prometheus.GaugeVec
	notifications *prometheus.CounterVec
	durations     *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depnotify",
			Name:      "scans_total",
			Help:      "scan runs by result",
		}, []string{"result"}),
		outdated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "depnotify",
			Name:      "outdated_dependencies",
			Help:      "outdated dependencies found in the last scan of a project",
		}, []string{"project"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depnotify",
			Name:      "notifications_total",
			Help:      "chat.postMessage calls by result",
		}, []string{"result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "depnotify",
			Name:      "stage_duration_seconds",
			Help:      "time spent per pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
	}
	m.Registry.MustRegister(m.scans, m.outdated, m.notifications, m.durations)
	return m
}

// ScanFinished counts a run.
func (m *Metrics) ScanFinished(result string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

// Outdated records how many dependencies a project has to update.
func (m *Metrics) Outdated(project string, n int) {
	if m == nil {
		return
	}
	m.outdated.WithLabelValues(project).Set(float64(n))
}

// Notified counts a delivery attempt.
func (m *Metrics) Notified(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

// ObserveStage records the duration of a pipeline stage in seconds.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(stage).Observe(seconds)
}

// Push sends everything gathered so far to a Pushgateway.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

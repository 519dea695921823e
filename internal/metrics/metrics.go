// Package metrics exposes Prometheus metrics for scans, marketplace actions
// and session events. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "heronft_client"

type Metrics struct {
	registry *prometheus.Registry

	ScanDuration *prometheus.HistogramVec
	ScanProbes   *prometheus.CounterVec
	ScanMatches  *prometheus.CounterVec
	ScanFailures *prometheus.CounterVec

	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec

	SessionEvents *prometheus.CounterVec
	Connected     prometheus.Gauge
}

// New registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ScanDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "scan_duration_seconds",
			Help:      "Duration of token discovery scans by mode",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"mode"}),
		ScanProbes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "probes_total",
			Help:      "Token ids probed by discovery scans",
		}, []string{"mode"}),
		ScanMatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "matches_total",
			Help:      "Tokens matched by discovery scans",
		}, []string{"mode"}),
		ScanFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "failures_total",
			Help:      "Discovery scans aborted by an error",
		}, []string{"mode"}),

		ActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "actions_total",
			Help:      "Marketplace actions by name and outcome",
		}, []string{"action", "outcome"}),
		ActionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "action_duration_seconds",
			Help:      "Time from submission to confirmation",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"action"}),

		SessionEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session lifecycle events",
		}, []string{"event"}),
		Connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "connected",
			Help:      "1 while a wallet session is active",
		}),
	}
}

func (m *Metrics) ObserveScan(mode string, probes, matches int, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.ScanDuration.WithLabelValues(mode).Observe(took.Seconds())
	m.ScanProbes.WithLabelValues(mode).Add(float64(probes))
	m.ScanMatches.WithLabelValues(mode).Add(float64(matches))
	if err != nil {
		m.ScanFailures.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) ObserveAction(action, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(action, outcome).Inc()
	if took > 0 {
		m.ActionDuration.WithLabelValues(action).Observe(took.Seconds())
	}
}

func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.Connected.Set(1)
	} else {
		m.Connected.Set(0)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

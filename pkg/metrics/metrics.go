package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Widget Metrics
	TemperatureEditsTotal  *prometheus.CounterVec
	CounterIncrementsTotal prometheus.Counter
	MountsTotal            prometheus.Counter
	UnmountsTotal          *prometheus.CounterVec
	MountedWidgets         prometheus.Gauge

	// Replay Metrics
	ReplayStepsTotal *prometheus.CounterVec
	ReplayDuration   prometheus.Histogram
}

// NewCollector creates a new metrics collector registered against reg
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		TemperatureEditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temperature_edits_total",
				Help:      "Temperature converter edits by unit and outcome",
			},
			[]string{"unit", "outcome"}, // outcome: "valid", "invalid"
		),

		CounterIncrementsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "counter_increments_total",
				Help:      "Total number of counter activations",
			},
		),

		MountsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widget_mounts_total",
				Help:      "Total number of widget mounts",
			},
		),

		UnmountsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widget_unmounts_total",
				Help:      "Total number of widget unmounts by reason",
			},
			[]string{"reason"}, // "explicit", "evicted"
		),

		MountedWidgets: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mounted_widgets",
				Help:      "Number of currently mounted widget pairs",
			},
		),

		ReplayStepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replay_steps_total",
				Help:      "Replay script lines by directive",
			},
			[]string{"directive"},
		),

		ReplayDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "replay_duration_seconds",
				Help:      "Duration of replay runs in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordTemperatureEdit counts one converter edit
func (c *Collector) RecordTemperatureEdit(unit string, valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	c.TemperatureEditsTotal.WithLabelValues(unit, outcome).Inc()
}

// RecordMount counts a mount and raises the live gauge
func (c *Collector) RecordMount() {
	c.MountsTotal.Inc()
	c.MountedWidgets.Inc()
}

// RecordUnmount counts an unmount and lowers the live gauge
func (c *Collector) RecordUnmount(reason string) {
	c.UnmountsTotal.WithLabelValues(reason).Inc()
	c.MountedWidgets.Dec()
}

// RecordReplayStep counts one replayed script line
func (c *Collector) RecordReplayStep(directive string) {
	c.ReplayStepsTotal.WithLabelValues(directive).Inc()
}

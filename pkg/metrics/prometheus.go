// Package metrics provides Prometheus metrics for the Points+ pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Run metrics
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec

	// Data metrics
	rowsIngested      *prometheus.GaugeVec
	playersTotal      prometheus.Gauge
	qualifyingPlayers prometheus.Gauge
	leagueBaseline    prometheus.Gauge
	contextFallbacks  *prometheus.CounterVec
	artifactsWritten  prometheus.Counter
	snapshotLastUnix  prometheus.Gauge

	// Acquisition metrics
	fetchAttempts *prometheus.CounterVec
	fetchRetries  prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pointsplus",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Computation runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of a full computation run",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time of each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.rowsIngested = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_ingested",
		Help:        "Rows read per input table in the last run",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.playersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players",
		Help:        "Distinct players seen in the last run",
		ConstLabels: m.constLabels,
	})

	m.qualifyingPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "qualifying_players",
		Help:        "Players meeting the qualifying thresholds in the last run",
		ConstLabels: m.constLabels,
	})

	m.leagueBaseline = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "league_baseline_adj_ppg",
		Help:        "Mean adjusted points per game among qualifiers",
		ConstLabels: m.constLabels,
	})

	m.contextFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "context_fallbacks_total",
		Help:        "Games that used the league average instead of opponent context",
		ConstLabels: m.constLabels,
	}, []string{"factor"})

	m.artifactsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifacts_written_total",
		Help:        "Files written by the publisher",
		ConstLabels: m.constLabels,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix time the served snapshot was computed",
		ConstLabels: m.constLabels,
	})

	m.fetchAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "fetch",
		Name:        "attempts_total",
		Help:        "Stats provider requests by endpoint and outcome",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "outcome"})

	m.fetchRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "fetch",
		Name:        "retries_total",
		Help:        "Stats provider requests that were retried",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request latency in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRun records a finished run with its outcome and duration.
func (m *Manager) RecordRun(status string, seconds float64) {
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(seconds)
}

// ObserveStage records the duration of one pipeline stage.
func (m *Manager) ObserveStage(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// SetRowsIngested sets the row count read for table.
func (m *Manager) SetRowsIngested(table string, rows int) {
	m.rowsIngested.WithLabelValues(table).Set(float64(rows))
}

// SetPlayers sets the distinct and qualifying player counts.
func (m *Manager) SetPlayers(total, qualifying int) {
	m.playersTotal.Set(float64(total))
	m.qualifyingPlayers.Set(float64(qualifying))
}

// SetBaseline sets the league baseline gauge.
func (m *Manager) SetBaseline(v float64) {
	m.leagueBaseline.Set(v)
}

// AddContextFallbacks adds n fallbacks for factor ("def", "pace" or "opponent").
func (m *Manager) AddContextFallbacks(factor string, n int) {
	if n > 0 {
		m.contextFallbacks.WithLabelValues(factor).Add(float64(n))
	}
}

// RecordArtifactWritten increments the written files counter.
func (m *Manager) RecordArtifactWritten() {
	m.artifactsWritten.Inc()
}

// MarkSnapshot records when the served snapshot was computed.
func (m *Manager) MarkSnapshot(unix int64) {
	m.snapshotLastUnix.Set(float64(unix))
}

// RecordFetchAttempt counts one provider request.
func (m *Manager) RecordFetchAttempt(endpoint, outcome string) {
	m.fetchAttempts.WithLabelValues(endpoint, outcome).Inc()
}

// RecordFetchRetry counts one retried provider request.
func (m *Manager) RecordFetchRetry() {
	m.fetchRetries.Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// Package-level helpers delegate to the global manager.

// RecordRun records a finished run on the global manager.
func RecordRun(status string, seconds float64) { globalManager.RecordRun(status, seconds) }

// ObserveStage records a stage duration on the global manager.
func ObserveStage(stage string, seconds float64) { globalManager.ObserveStage(stage, seconds) }

// SetRowsIngested sets a table's row count on the global manager.
func SetRowsIngested(table string, rows int) { globalManager.SetRowsIngested(table, rows) }

// SetPlayers sets player counts on the global manager.
func SetPlayers(total, qualifying int) { globalManager.SetPlayers(total, qualifying) }

// SetBaseline sets the baseline gauge on the global manager.
func SetBaseline(v float64) { globalManager.SetBaseline(v) }

// AddContextFallbacks adds fallbacks on the global manager.
func AddContextFallbacks(factor string, n int) { globalManager.AddContextFallbacks(factor, n) }

// RecordArtifactWritten counts a written file on the global manager.
func RecordArtifactWritten() { globalManager.RecordArtifactWritten() }

// MarkSnapshot records the snapshot time on the global manager.
func MarkSnapshot(unix int64) { globalManager.MarkSnapshot(unix) }

// RecordFetchAttempt counts a provider request on the global manager.
func RecordFetchAttempt(endpoint, outcome string) { globalManager.RecordFetchAttempt(endpoint, outcome) }

// RecordFetchRetry counts a retry on the global manager.
func RecordFetchRetry() { globalManager.RecordFetchRetry() }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP latency on the global manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics of the custom registry to path in
// the Prometheus text format, for collection by a textfile exporter.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Package metrics provides Prometheus metrics for the normalization pipeline.
package metrics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "pdxcrime"
	subsystem = "pipeline"
)

// durationBuckets are in milliseconds; one yearly file takes tens of them.
var durationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager owns every pipeline metric.
type Manager struct {
	enabled     bool
	constLabels prometheus.Labels
	registry    prometheus.Registerer

	rowsParsed        *prometheus.CounterVec
	rowsDropped       *prometheus.CounterVec
	translated        *prometheus.CounterVec
	syntheticRows     *prometheus.CounterVec
	bytesFetched      *prometheus.CounterVec
	errors            *prometheus.CounterVec
	filesWritten      *prometheus.CounterVec
	normalizeDuration *prometheus.HistogramVec
	queueDepth        prometheus.Gauge
	workersBusy       prometheus.Gauge
}

var (
	mu             sync.RWMutex         //nolint:gochecknoglobals // guards the pair below
	globalManager  *Manager             //nolint:gochecknoglobals // process-wide recorder
	customRegistry *prometheus.Registry //nolint:gochecknoglobals // avoids default Go runtime metrics
)

func init() { //nolint:gochecknoinits // recorders work before Configure runs
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Values recorded before the call are discarded, so the CLI calls
// it once, right after loading configuration.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	mu.Lock()
	globalManager, customRegistry = m, reg
	mu.Unlock()
}

func current() *Manager {
	mu.RLock()
	defer mu.RUnlock()
	return globalManager
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		enabled:  true,
		registry: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether the manager records values.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.labels(),
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.labels(),
	})
}

func (m *Manager) initializeMetrics() {
	m.rowsParsed = m.counterVec("rows_parsed_total",
		"Rows read from a yearly source file", "dataset", "year")
	m.rowsDropped = m.counterVec("rows_dropped_total",
		"Rows removed during normalization", "dataset", "reason")
	m.translated = m.counterVec("neighborhoods_translated_total",
		"Neighborhood values rewritten by a translation rule", "dataset")
	m.syntheticRows = m.counterVec("synthetic_rows_total",
		"Rows constructed to fill a known data gap", "dataset")
	m.bytesFetched = m.counterVec("bytes_fetched_total",
		"Bytes read from the resource store", "dataset")
	m.errors = m.counterVec("errors_total",
		"Pipeline failures by error kind", "dataset", "kind")
	m.filesWritten = m.counterVec("files_written_total",
		"Output files written", "format")
	m.normalizeDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "normalize_duration_milliseconds",
		Help:        "Time to normalize one yearly file",
		Buckets:     durationBuckets,
		ConstLabels: m.labels(),
	}, []string{"dataset"})
	m.queueDepth = m.gauge("queue_depth", "Year jobs waiting for a worker")
	m.workersBusy = m.gauge("workers_busy", "Workers currently normalizing a year")
}

// RowsParsed adds n parsed rows.
func (m *Manager) RowsParsed(dataset string, year, n int) {
	if m.enabled {
		m.rowsParsed.WithLabelValues(dataset, strconv.Itoa(year)).Add(float64(n))
	}
}

// RowsDropped adds n dropped rows.
func (m *Manager) RowsDropped(dataset, reason string, n int) {
	if m.enabled && n > 0 {
		m.rowsDropped.WithLabelValues(dataset, reason).Add(float64(n))
	}
}

// Translated adds n translated neighborhood values.
func (m *Manager) Translated(dataset string, n int) {
	if m.enabled && n > 0 {
		m.translated.WithLabelValues(dataset).Add(float64(n))
	}
}

// SyntheticRow counts one synthesized row.
func (m *Manager) SyntheticRow(dataset string) {
	if m.enabled {
		m.syntheticRows.WithLabelValues(dataset).Inc()
	}
}

// BytesFetched adds n fetched bytes.
func (m *Manager) BytesFetched(dataset string, n int) {
	if m.enabled {
		m.bytesFetched.WithLabelValues(dataset).Add(float64(n))
	}
}

// Error counts one failure.
func (m *Manager) Error(dataset, kind string) {
	if m.enabled {
		m.errors.WithLabelValues(dataset, kind).Inc()
	}
}

// FileWritten counts one output file.
func (m *Manager) FileWritten(format string) {
	if m.enabled {
		m.filesWritten.WithLabelValues(format).Inc()
	}
}

// NormalizeDuration observes one normalization run.
func (m *Manager) NormalizeDuration(dataset string, d time.Duration) {
	if m.enabled {
		m.normalizeDuration.WithLabelValues(dataset).Observe(float64(d) / float64(time.Millisecond))
	}
}

// QueueDepth sets the number of queued jobs.
func (m *Manager) QueueDepth(n int) {
	if m.enabled {
		m.queueDepth.Set(float64(n))
	}
}

// WorkerBusy moves the busy worker gauge by delta.
func (m *Manager) WorkerBusy(delta int) {
	if m.enabled {
		m.workersBusy.Add(float64(delta))
	}
}

// RecordRowsParsed adds n parsed rows for a dataset year.
func RecordRowsParsed(dataset string, year, n int) { current().RowsParsed(dataset, year, n) }

// RecordRowsDropped adds n rows dropped for reason.
func RecordRowsDropped(dataset, reason string, n int) {
	current().RowsDropped(dataset, reason, n)
}

// RecordTranslated adds n neighborhood rewrites.
func RecordTranslated(dataset string, n int) { current().Translated(dataset, n) }

// RecordSyntheticRow counts one synthesized row.
func RecordSyntheticRow(dataset string) { current().SyntheticRow(dataset) }

// RecordBytesFetched adds n bytes read from the store.
func RecordBytesFetched(dataset string, n int) { current().BytesFetched(dataset, n) }

// RecordError counts one failure of the given kind.
func RecordError(dataset, kind string) { current().Error(dataset, kind) }

// RecordFileWritten counts one output file.
func RecordFileWritten(format string) { current().FileWritten(format) }

// RecordNormalizeDuration observes one normalization run.
func RecordNormalizeDuration(dataset string, d time.Duration) {
	current().NormalizeDuration(dataset, d)
}

// UpdateQueueDepth sets the number of queued jobs.
func UpdateQueueDepth(n int) { current().QueueDepth(n) }

// RecordWorkerBusy moves the busy worker gauge by delta.
func RecordWorkerBusy(delta int) { current().WorkerBusy(delta) }

// GetRegistry returns the registry behind the global manager.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return customRegistry
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Package metrics exposes Prometheus instruments for the league service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a private registry and every league instrument.
// All Record methods are no-ops on a nil *Manager.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	fixturesScheduled *prometheus.CounterVec
	fixturesCompleted prometheus.Counter
	gamesRecorded     prometheus.Counter
	ratingDelta       prometheus.Histogram
	resultErrors      *prometheus.CounterVec

	remindersSent     *prometheus.CounterVec
	notifierCircuit   *prometheus.GaugeVec
	standingsCacheHit *prometheus.CounterVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom buckets for the latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRuntimeCollectors registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pool",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.fixturesScheduled = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixtures_scheduled_total",
		Help:      "Fixtures created by the round-robin scheduler, by division.",
	}, []string{"division_id"})

	m.fixturesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixtures_completed_total",
		Help:      "Fixtures whose results were recorded.",
	})

	m.gamesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_recorded_total",
		Help:      "Games appended to the ledger.",
	})

	m.ratingDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_delta_points",
		Help:      "Absolute rating change applied per player per game.",
		Buckets:   []float64{2, 4, 6, 8, 10, 12, 15, 18, 21, 25, 30},
	})

	m.resultErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_errors_total",
		Help:      "Rejected result submissions by reason.",
	}, []string{"reason"})

	m.remindersSent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reminders_total",
		Help:      "Match reminders by delivery status.",
	}, []string{"status"})

	m.notifierCircuit = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifier_circuit_state",
		Help:      "1 for the notifier circuit breaker's current state.",
	}, []string{"state"})

	m.standingsCacheHit = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_cache_lookups_total",
		Help:      "Standings cache lookups by result.",
	}, []string{"result"})
}

// Registry returns the registry the instruments are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) RecordHTTPRequest(route, method string, statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) RecordFixturesScheduled(divisionID int64, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.fixturesScheduled.WithLabelValues(strconv.FormatInt(divisionID, 10)).Add(float64(count))
}

// RecordFixtureCompleted counts one completed fixture, its games and every rating delta.
func (m *Manager) RecordFixtureCompleted(games int, deltas []int) {
	if m == nil {
		return
	}
	m.fixturesCompleted.Inc()
	m.gamesRecorded.Add(float64(games))
	for _, d := range deltas {
		if d < 0 {
			d = -d
		}
		m.ratingDelta.Observe(float64(d))
	}
}

func (m *Manager) RecordResultError(reason string) {
	if m == nil {
		return
	}
	m.resultErrors.WithLabelValues(reason).Inc()
}

// RecordReminder counts one reminder by status: sent, failed or skipped.
func (m *Manager) RecordReminder(status string) {
	if m == nil {
		return
	}
	m.remindersSent.WithLabelValues(status).Inc()
}

// SetNotifierCircuitState flags state as current and clears the others.
func (m *Manager) SetNotifierCircuitState(state string, all ...string) {
	if m == nil {
		return
	}
	for _, s := range all {
		m.notifierCircuit.WithLabelValues(s).Set(0)
	}
	m.notifierCircuit.WithLabelValues(state).Set(1)
}

func (m *Manager) RecordStandingsCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.standingsCacheHit.WithLabelValues(result).Inc()
}

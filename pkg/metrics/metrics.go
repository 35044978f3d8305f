// Package metrics collects Prometheus metrics for jsxdom builds, insertions
// and the preview server.
//
// A nil *Metrics is valid and records nothing, so components take one
// optionally:
//
//	m := metrics.New(metrics.WithNamespace("docs"))
//	b := jsx.NewBuilder(jsx.WithMetrics(m))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "jsxdom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "jsxdom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the jsxdom collectors.
type Metrics struct {
	buildsTotal     *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	nodesCreated    *prometheus.CounterVec
	insertionsTotal *prometheus.CounterVec
	previewRequests *prometheus.CounterVec
	reloadsTotal    prometheus.Counter
}

// New registers the collectors and returns them.
// Registering twice against the same registry panics, as with promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "builds_total",
			Help:        "Total number of descriptor builds by output kind and status",
			ConstLabels: config.ConstLabels,
		}, []string{"output", "status"}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Descriptor build duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of DOM nodes created by builds",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		insertionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "insertions_total",
			Help:        "Total number of insertion helper calls by helper and status",
			ConstLabels: config.ConstLabels,
		}, []string{"helper", "status"}),

		previewRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_requests_total",
			Help:        "Total number of preview server requests by route and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		reloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_total",
			Help:        "Total number of live reload broadcasts",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveBuild records one build. Status is "ok" or the error code, which
// keeps label cardinality bounded.
func (m *Metrics) ObserveBuild(output string, d time.Duration, elements, texts int, code string) {
	if m == nil {
		return
	}
	m.buildsTotal.WithLabelValues(output, status(code)).Inc()
	m.buildDuration.Observe(d.Seconds())
	m.nodesCreated.WithLabelValues("element").Add(float64(elements))
	m.nodesCreated.WithLabelValues("text").Add(float64(texts))
}

// ObserveInsertion records one insertion helper call.
func (m *Metrics) ObserveInsertion(helper, code string) {
	if m == nil {
		return
	}
	m.insertionsTotal.WithLabelValues(helper, status(code)).Inc()
}

// ObservePreviewRequest records one preview server response.
func (m *Metrics) ObservePreviewRequest(route string, code int) {
	if m == nil {
		return
	}
	m.previewRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveReload records one live reload broadcast.
func (m *Metrics) ObserveReload() {
	if m == nil {
		return
	}
	m.reloadsTotal.Inc()
}

func status(code string) string {
	if code == "" {
		return "ok"
	}
	return code
}

// Package metrics exposes Prometheus collectors for the qcss runtime.
//
// Metrics collected:
//   - qcss_hydrations_total: Counter of Hydrate calls
//   - qcss_hydrate_elements_total: Counter of marked elements by result
//     (assigned, leaf_fallback, missed)
//   - qcss_hydrate_duration_seconds: Histogram of Hydrate duration
//   - qcss_resolves_total: Counter of path resolutions by target kind
//   - qcss_flips_total: Counter of Flip calls
//   - qcss_flip_animated_total: Counter of children animated by Flip
//   - qcss_effect_runs_total: Counter of effect runs
//   - qcss_cascades_dropped_total: Counter of notification passes cut off
//     by the depth limit
//   - qcss_manifest_reloads_total: Counter of manifest reloads by status
//   - qcss_manifest_entries: Gauge of entries in the current manifest
//   - qcss_preview_clients: Gauge of connected preview reload clients
//
// Every method is a no-op on a nil *Metrics, so components can take an
// optional collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/qcss/pkg/flip"
	"github.com/vango-dev/qcss/pkg/hydrate"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/selector"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "qcss").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for hydrate duration.
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
		Namespace: "qcss",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	hydrations      prometheus.Counter
	hydrateElements *prometheus.CounterVec
	hydrateDuration prometheus.Histogram
	resolves        *prometheus.CounterVec
	flips           prometheus.Counter
	flipAnimated    prometheus.Counter
	effectRuns      prometheus.Counter
	cascadesDropped prometheus.Counter
	manifestReloads *prometheus.CounterVec
	manifestEntries prometheus.Gauge
	previewClients  prometheus.Gauge
}

// New registers the collectors with the configured registry. Registering
// twice with the same registry panics, as promauto does.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		hydrations:      counter("hydrations_total", "Total number of Hydrate calls"),
		hydrateElements: counterVec("hydrate_elements_total", "Marked elements seen by Hydrate, by result", "result"),
		hydrateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydrate_duration_seconds",
			Help:        "Hydrate duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		resolves:        counterVec("resolves_total", "Path resolutions by target kind", "kind"),
		flips:           counter("flips_total", "Total number of Flip calls"),
		flipAnimated:    counter("flip_animated_total", "Children animated by Flip"),
		effectRuns:      counter("effect_runs_total", "Total number of effect runs"),
		cascadesDropped: counter("cascades_dropped_total", "Notification passes cut off by the depth limit"),
		manifestReloads: counterVec("manifest_reloads_total", "Manifest reloads by status", "status"),
		manifestEntries: gauge("manifest_entries", "Entries in the current manifest"),
		previewClients:  gauge("preview_clients", "Connected preview reload clients"),
	}
}

// ObserveHydrate records one Hydrate call.
func (m *Metrics) ObserveHydrate(st hydrate.Stats, d time.Duration) {
	if m == nil {
		return
	}
	m.hydrations.Inc()
	m.hydrateDuration.Observe(d.Seconds())
	m.hydrateElements.WithLabelValues("assigned").Add(float64(st.Assigned - st.LeafFallbacks))
	m.hydrateElements.WithLabelValues("leaf_fallback").Add(float64(st.LeafFallbacks))
	m.hydrateElements.WithLabelValues("missed").Add(float64(st.Missed))
}

// ObserveResolve records one resolution.
func (m *Metrics) ObserveResolve(kind selector.Kind) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(kind.String()).Inc()
}

// ObserveFlip records one Flip call.
func (m *Metrics) ObserveFlip(res flip.Result) {
	if m == nil {
		return
	}
	m.flips.Inc()
	m.flipAnimated.Add(float64(len(res.Animated)))
}

// EffectRun records one effect run.
func (m *Metrics) EffectRun() {
	if m == nil {
		return
	}
	m.effectRuns.Inc()
}

// CascadeDropped records a notification pass cut off by the depth limit.
func (m *Metrics) CascadeDropped() {
	if m == nil {
		return
	}
	m.cascadesDropped.Inc()
}

// ManifestLoaded records a manifest (re)load. On success the entries gauge
// follows the new manifest.
func (m *Metrics) ManifestLoaded(man *manifest.Manifest, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.manifestReloads.WithLabelValues("error").Inc()
		return
	}
	m.manifestReloads.WithLabelValues("success").Inc()
	m.manifestEntries.Set(float64(man.Len()))
}

// ClientConnected records a preview client connecting.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.previewClients.Inc()
}

// ClientDisconnected records a preview client leaving.
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.previewClients.Dec()
}

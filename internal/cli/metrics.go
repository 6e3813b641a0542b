package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics records layout and cache events as Prometheus metrics on a
// private registry. It implements observability.LayoutHooks and
// observability.CacheHooks.
type metrics struct {
	registry *prometheus.Registry

	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	nodes          prometheus.Gauge
	links          prometheus.Gauge
	stress         prometheus.Gauge
	phaseDuration  *prometheus.HistogramVec
	ticks          prometheus.Counter
	solves         prometheus.Counter
	solveDuration  prometheus.Histogram
	renders        *prometheus.CounterVec
	renderBytes    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheRequests  *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_layouts_total",
			Help: "Layouts computed, by outcome.",
		}, []string{"status"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clustermap_layout_duration_seconds",
			Help:    "Wall time of a full layout.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_layout_nodes",
			Help: "Node count of the last layout.",
		}),
		links: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_layout_links",
			Help: "Link count of the last layout.",
		}),
		stress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_layout_stress",
			Help: "Stress of the last layout or tick.",
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clustermap_phase_duration_seconds",
			Help:    "Wall time of each layout phase.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"phase"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clustermap_ticks_total",
			Help: "Convergence ticks run.",
		}),
		solves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clustermap_overlap_solves_total",
			Help: "Standalone overlap removal solves.",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clustermap_overlap_solve_duration_seconds",
			Help:    "Wall time of a standalone overlap removal.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~200ms
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_renders_total",
			Help: "Outputs encoded, by format and outcome.",
		}, []string{"format", "status"}),
		renderBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_render_bytes_total",
			Help: "Bytes of encoded output, by format.",
		}, []string{"format"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clustermap_render_duration_seconds",
			Help:    "Wall time of encoding one output.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"format"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_cache_requests_total",
			Help: "Cache lookups, by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		m.layouts, m.layoutDuration, m.nodes, m.links, m.stress,
		m.phaseDuration, m.ticks, m.solves, m.solveDuration,
		m.renders, m.renderBytes, m.renderDuration,
		m.cacheRequests, m.cacheBytes,
	)
	return m
}

// WriteFile writes the gathered metrics in the Prometheus text format.
func (m *metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Layout Hooks
// =============================================================================

func (m *metrics) OnLayoutStart(_ context.Context, nodeCount, linkCount int) {
	m.nodes.Set(float64(nodeCount))
	m.links.Set(float64(linkCount))
}

func (m *metrics) OnPhase(_ context.Context, phase string, _ int, stress float64, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	m.stress.Set(stress)
}

func (m *metrics) OnTick(_ context.Context, _, stress float64) {
	m.ticks.Inc()
	m.stress.Set(stress)
}

func (m *metrics) OnLayoutEnd(_ context.Context, _ int, stress float64, d time.Duration, err error) {
	m.layouts.WithLabelValues(status(err)).Inc()
	m.layoutDuration.Observe(d.Seconds())
	if err == nil {
		m.stress.Set(stress)
	}
}

func (m *metrics) OnSolve(_ context.Context, _, _ int, d time.Duration) {
	m.solves.Inc()
	m.solveDuration.Observe(d.Seconds())
}

func (m *metrics) OnRender(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, status(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		m.renderBytes.WithLabelValues(format).Add(float64(size))
	}
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

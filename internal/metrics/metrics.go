// Package metrics exposes collector counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "squirrel"

type Metrics struct {
	registry *prometheus.Registry

	Captures        *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	Sightings       *prometheus.CounterVec
	Enrichments     *prometheus.CounterVec
	EnrichmentTime  prometheus.Histogram
	Syncs           *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ActiveEnrichers prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Captures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_total",
			Help:      "Posts captured and stored",
		}, []string{"platform"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_rejections_total",
			Help:      "Capture attempts abandoned because nothing could be extracted",
		}, []string{"platform"}),
		Sightings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sightings_total",
			Help:      "Continuous-mode sightings by upsert outcome",
		}, []string{"outcome"}),
		Enrichments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichments_total",
			Help:      "Enrichment runs by result",
		}, []string{"result"}),
		EnrichmentTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "Wall time of one enrichment run",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		Syncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feishu_syncs_total",
			Help:      "Feishu sync attempts by result",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 30, 90},
		}, []string{"method", "path"}),
		ActiveEnrichers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enrichments_in_flight",
			Help:      "Enrichment runs currently executing",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveSync(err error) {
	m.Syncs.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

var Module = fx.Module("metrics", fx.Provide(New))

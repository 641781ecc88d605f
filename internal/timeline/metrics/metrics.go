// Package metrics registers the Prometheus metrics for the timeline engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the timeline-side Prometheus collectors.
type Metrics struct {
	StoresBuilt       prometheus.Counter
	FilterDuration    prometheus.Histogram
	DeepLinksResolved prometheus.Counter
	DeepLinkMisses    prometheus.Counter
	RequestLatency    *prometheus.HistogramVec
}

// New creates and registers all timeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoresBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_timeline_stores_built_total",
			Help: "Total number of subject timeline stores constructed",
		}),
		FilterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronicle_timeline_filter_duration_seconds",
			Help:    "Latency of facet filter computations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		DeepLinksResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_timeline_deep_links_resolved_total",
			Help: "Deep links that resolved to an event",
		}),
		DeepLinkMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_timeline_deep_link_misses_total",
			Help: "Deep links whose anchor matched no event",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chronicle_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

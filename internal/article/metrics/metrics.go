// Package metrics registers the Prometheus metrics for article loading.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the article-side Prometheus collectors.
type Metrics struct {
	BatchesLoaded  prometheus.Counter
	BatchFailures  prometheus.Counter
	ArticlesLoaded prometheus.Counter
	BatchDuration  prometheus.Histogram
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// New creates and registers all article metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BatchesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_article_batches_loaded_total",
			Help: "Total number of article batches fetched successfully",
		}),
		BatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_article_batch_failures_total",
			Help: "Total number of article batch fetches that failed",
		}),
		ArticlesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_articles_loaded_total",
			Help: "Total number of articles merged into session fetched sets",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronicle_article_batch_duration_seconds",
			Help:    "Latency of article batch fetches",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_article_cache_hits_total",
			Help: "Article cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_article_cache_misses_total",
			Help: "Article cache misses",
		}),
	}
}

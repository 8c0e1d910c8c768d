// Package telemetry provides Prometheus metrics for index builds and
// searches, exposed through the HTTP front end at /metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// searchBuckets covers subsecond index lookups through slow LLM calls.
var searchBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}

// buildBuckets covers small trees through large reindex runs.
var buildBuckets = []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300}

var (
	// SearchesTotal counts searches by strategy and outcome.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtsearch_searches_total",
			Help: "Total searches",
		},
		[]string{"strategy", "status"},
	)

	// SearchDuration records search latency in seconds by strategy.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txtsearch_search_duration_seconds",
			Help:    "Search duration",
			Buckets: searchBuckets,
		},
		[]string{"strategy"},
	)

	// SearchHits records result counts per strategy.
	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txtsearch_search_hits",
			Help:    "Hits returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	// BuildsTotal counts index builds by outcome.
	BuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtsearch_builds_total",
			Help: "Total index builds",
		},
		[]string{"status"},
	)

	// BuildDuration records build latency in seconds.
	BuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "txtsearch_build_duration_seconds",
			Help:    "Index build duration",
			Buckets: buildBuckets,
		},
	)

	// IndexedFiles reports the file count of the last successful build.
	IndexedFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "txtsearch_indexed_files",
			Help: "Files in the active index",
		},
	)

	// IndexedChunks reports the chunk count of the last successful build.
	IndexedChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "txtsearch_indexed_chunks",
			Help: "Chunks in the active index",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		SearchDuration,
		SearchHits,
		BuildsTotal,
		BuildDuration,
		IndexedFiles,
		IndexedChunks,
	)
}

// ObserveSearch records one search invocation.
func ObserveSearch(strategy string, duration time.Duration, hits int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SearchesTotal.WithLabelValues(strategy, status).Inc()
	if err == nil {
		SearchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
		SearchHits.WithLabelValues(strategy).Observe(float64(hits))
	}
}

// ObserveBuild records one index build.
func ObserveBuild(duration time.Duration, files, chunks int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BuildsTotal.WithLabelValues(status).Inc()
	if err == nil {
		BuildDuration.Observe(duration.Seconds())
		IndexedFiles.Set(float64(files))
		IndexedChunks.Set(float64(chunks))
	}
}

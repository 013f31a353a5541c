package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sheetinsights"

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewIngestedRows tracks how many rows each successful upload stored.
func NewIngestedRows() prometheus.Histogram {
	return promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingested_rows",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		})
}

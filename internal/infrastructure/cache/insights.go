package cache

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sheet-insights-api/internal/domain/insight"
)

var (
	insightHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetinsights",
		Name:      "insight_cache_hits_total",
	})
	insightMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sheetinsights",
		Name:      "insight_cache_misses_total",
	})
)

// Insights keeps computed reports per file until they expire or the file is deleted.
// Cached reports are shared and must not be modified by callers.
type Insights struct {
	lru *expirable.LRU[uuid.UUID, *insight.Report]
}

func NewInsights(size int, ttl time.Duration) *Insights {
	if size <= 0 {
		size = 1
	}
	return &Insights{lru: expirable.NewLRU[uuid.UUID, *insight.Report](size, nil, ttl)}
}

func (c *Insights) Get(fileID uuid.UUID) (*insight.Report, bool) {
	rep, ok := c.lru.Get(fileID)
	if ok {
		insightHits.Inc()
		return rep, true
	}
	insightMisses.Inc()
	return nil, false
}

func (c *Insights) Set(fileID uuid.UUID, rep *insight.Report) {
	c.lru.Add(fileID, rep)
}

func (c *Insights) Delete(fileID uuid.UUID) {
	c.lru.Remove(fileID)
}

func (c *Insights) Purge() {
	c.lru.Purge()
}

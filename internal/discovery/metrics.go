package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeServed    = "served"
	outcomeCached    = "cached"
	outcomeNoProfile = "no_profile"
	outcomeError     = "error"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_feed_requests_total",
			Help: "Total number of discovery feed requests by outcome",
		},
		[]string{"outcome"},
	)

	storeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_store_failures_total",
			Help: "Total number of failed store calls by operation",
		},
		[]string{"op"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		},
		[]string{"result"},
	)

	candidateScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidate_scores",
			Help:    "Distribution of candidate scores",
			Buckets: prometheus.LinearBuckets(0, 5, 9),
		},
	)

	poolSizes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidate_pool_size",
			Help:    "Number of candidates fetched per feed",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	feedLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "discovery_feed_duration_seconds",
			Help: "Time spent building a discovery feed",
		},
	)
)

func recordFeed(outcome string, started time.Time) {
	feedRequestsTotal.WithLabelValues(outcome).Inc()
	feedLatency.Observe(time.Since(started).Seconds())
}

func recordStoreFailure(op string) {
	storeFailuresTotal.WithLabelValues(op).Inc()
}

func recordCacheLookup(hit bool) {
	if hit {
		cacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	cacheLookupsTotal.WithLabelValues("miss").Inc()
}

func recordRanking(poolSize int, feed []*RankedCandidate) {
	poolSizes.Observe(float64(poolSize))
	for _, c := range feed {
		candidateScores.Observe(float64(c.Score))
	}
}

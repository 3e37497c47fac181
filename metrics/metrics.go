// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelationshipRequests counts relationship computations by response type
	RelationshipRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineage_relationship_requests_total",
		Help: "Total relationship computations by response type",
	}, []string{"type"})

	// RelationshipDuration tracks relationship computation latency
	RelationshipDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lineage_relationship_duration_seconds",
		Help:    "Relationship computation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	})

	// RelationshipPeople counts classified people
	RelationshipPeople = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_relationship_people_total",
		Help: "Total people classified against a root",
	})

	// CacheLookups counts profile cache lookups by result
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineage_profile_cache_lookups_total",
		Help: "Total profile cache lookups by result",
	}, []string{"result"}) // "hit" or "miss"

	// CacheEvictions counts profiles evicted from cache
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_profile_cache_evictions_total",
		Help: "Total profiles evicted from cache",
	})

	// AncestorGenerations tracks how many generations an index expansion reached
	AncestorGenerations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lineage_ancestor_generations",
		Help:    "Generations reached by ancestor index expansions",
		Buckets: prometheus.LinearBuckets(1, 1, 20),
	})
)

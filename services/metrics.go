package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safetube_child_login_attempts_total",
		Help: "Child login attempts by outcome.",
	}, []string{"outcome"})

	safetyDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safetube_safety_decisions_total",
		Help: "Content safety decisions by deciding rule and verdict.",
	}, []string{"rule", "verdict"})

	catalogQuotaUnitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safetube_catalog_quota_units_total",
		Help: "Catalog API units requested, split by whether the budget allowed them.",
	}, []string{"operation", "result"})

	catalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safetube_catalog_cache_hits_total",
		Help: "Video details served from the in-memory cache.",
	})

	catalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safetube_catalog_cache_misses_total",
		Help: "Video details that had to be fetched from the catalog.",
	})
)

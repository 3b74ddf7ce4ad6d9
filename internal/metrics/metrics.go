// Package metrics holds Prometheus instruments that are used across mise.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoutingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mise_routing_decisions_total",
			Help: "Locale router outcomes by kind (redirect, rewrite, passthrough).",
		}, []string{"outcome"})

	ResolverFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mise_resolver_fallback_total",
			Help: "Cross-locale resolutions that kept the current handle, by reason.",
		}, []string{"reason"})

	HandleCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mise_handle_collisions_total",
			Help: "Candidate handles rejected because the locale already uses them.",
		})

	HandleInsertRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mise_handle_insert_retries_total",
			Help: "Translation writes retried after a unique-constraint violation.",
		})

	StoreCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mise_store_cache_total",
			Help: "Content store read-through cache lookups by result (hit, miss).",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		RoutingDecisionsTotal,
		ResolverFallbackTotal,
		HandleCollisionsTotal,
		HandleInsertRetriesTotal,
		StoreCacheTotal,
	)
}

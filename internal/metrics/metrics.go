package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_sync_runs_total",
		Help: "Total number of catalog reconciliation runs",
	}, []string{"provider", "status"})

	SyncItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_sync_items_total",
		Help: "Items classified during reconciliation",
	}, []string{"provider", "outcome"})

	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podsync_sync_duration_seconds",
		Help:    "Duration of full-catalog reconciliation runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"provider"})

	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_provider_requests_total",
		Help: "Outbound vendor API requests",
	}, []string{"provider", "status"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podsync_provider_request_duration_seconds",
		Help:    "Latency of outbound vendor API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	ProviderRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_provider_retries_total",
		Help: "Retried vendor API requests",
	}, []string{"provider"})

	RateLimitWaitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podsync_rate_limit_wait_seconds",
		Help:    "Time spent waiting on the per-adapter rate limit gate",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"provider"})

	OrdersTrackedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_orders_tracked_total",
		Help: "Orders registered with the status tracker",
	}, []string{"provider"})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podsync_order_transitions_total",
		Help: "Order status transitions observed by the tracker",
	}, []string{"provider", "status"})

	StoreWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podsync_store_write_duration_seconds",
		Help:    "Latency of sync result store writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)

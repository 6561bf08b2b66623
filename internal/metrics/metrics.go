package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts applied offer transitions by operation and resulting status
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_transitions_total",
			Help: "Total number of applied offer transitions",
		},
		[]string{"operation", "status"},
	)

	// RejectionsTotal counts rejected coordinator calls by operation and rejection reason
	RejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_rejections_total",
			Help: "Total number of rejected coordinator calls",
		},
		[]string{"operation", "reason"},
	)

	// OperationDuration tracks coordinator call latency, including waiting for the offer lock
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_operation_duration_seconds",
			Help:    "Coordinator operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ChainEventsTotal counts chain events received from gateways
	ChainEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_chain_events_total",
			Help: "Total number of chain events observed",
		},
		[]string{"chain", "kind"},
	)

	// NotificationsTotal counts snapshot notifications by notifier and outcome
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_notifications_total",
			Help: "Total number of offer snapshot notifications",
		},
		[]string{"notifier", "status"},
	)

	// SweeperRunsTotal counts expiry sweeper runs by outcome
	SweeperRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_sweeper_runs_total",
			Help: "Total number of expiry sweeper runs",
		},
		[]string{"status"},
	)

	// ActiveOffers tracks offers that can still expire, by status
	ActiveOffers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swap_active_offers",
			Help: "Number of active offers by status",
		},
		[]string{"status"},
	)

	// WatchedLegs tracks HTLC legs currently followed by the chain observer
	WatchedLegs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swap_watched_legs",
			Help: "Number of HTLC legs watched by chain",
		},
		[]string{"chain"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

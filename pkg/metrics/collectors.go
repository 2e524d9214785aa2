package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "gift_wheel"

	LabelTier     = "tier"
	LabelOutcome  = "outcome"
	LabelReason   = "reason"
	LabelCurrency = "currency"
	LabelOp       = "op"
	LabelResult   = "result"
)

// Wheel and settlement
var (
	WheelsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wheels_built_total",
			Help:      "Wheels composed and stored, by tier.",
		},
		[]string{LabelTier},
	)

	SpinsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_settled_total",
			Help:      "Spins settled, by outcome slot type.",
		},
		[]string{LabelOutcome, LabelCurrency},
	)

	SpinsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_rejected_total",
			Help:      "Spins rejected before any balance mutation.",
		},
		[]string{LabelReason},
	)
)

// Acquisition
var (
	AcquisitionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisition_calls_total",
			Help:      "Acquisition pipeline operations, by result.",
		},
		[]string{LabelOp, LabelResult},
	)

	RateLimitRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ton_rate_limit_retries_total",
			Help:      "Blockchain RPC calls retried after a rate limit response.",
		},
	)
)

// Market sync
var (
	MarketSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "market_sync_duration_seconds",
			Help:      "Duration of a full market sync run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	MarketSyncSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_sync_skipped_total",
			Help:      "Sync ticks skipped because a run was in flight.",
		},
	)

	ListingsIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listings_indexed",
			Help:      "Listings currently in the price index.",
		},
	)
)

package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics holds all Prometheus metrics for the settlement module
type SettlementMetrics struct {
	// Job metrics
	JobsCreated   prometheus.Counter
	JobsClaimed   prometheus.Counter
	JobsCompleted *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec

	// Escrow metrics
	EscrowLocked   *prometheus.CounterVec
	EscrowReleased *prometheus.CounterVec
	EscrowRefunded *prometheus.CounterVec
	EscrowDisputes prometheus.Counter

	// Proof and challenge metrics
	ProofsSubmitted    prometheus.Counter
	ProofsVerified     *prometheus.CounterVec
	ChallengesOpened   prometheus.Counter
	ChallengesResolved *prometheus.CounterVec

	// Reputation metrics
	ReputationUpdates *prometheus.CounterVec
	HostRatings       prometheus.Counter

	// Reward metrics
	RewardsDistributed *prometheus.CounterVec
	RewardsClaimed     *prometheus.CounterVec
	TotalStaked        prometheus.Gauge

	// Failure metrics
	TransferFailures *prometheus.CounterVec
}

var (
	settlementMetricsOnce sync.Once
	settlementMetrics     *SettlementMetrics
)

// NewSettlementMetrics creates and registers settlement metrics (singleton pattern)
func NewSettlementMetrics() *SettlementMetrics {
	settlementMetricsOnce.Do(func() {
		settlementMetrics = &SettlementMetrics{
			JobsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "jobs_created_total",
					Help:      "Total jobs posted",
				},
			),
			JobsClaimed: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "jobs_claimed_total",
					Help:      "Total jobs claimed by hosts",
				},
			),
			JobsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "jobs_completed_total",
					Help:      "Total jobs completed",
				},
				[]string{"denom"},
			),
			JobsFailed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "jobs_failed_total",
					Help:      "Total claimed jobs abandoned",
				},
				[]string{"actor"},
			),

			EscrowLocked: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "escrow_locked_total",
					Help:      "Total escrow locked",
				},
				[]string{"denom"},
			),
			EscrowReleased: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "escrow_released_total",
					Help:      "Total escrow released to hosts",
				},
				[]string{"denom"},
			),
			EscrowRefunded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "escrow_refunded_total",
					Help:      "Total escrow refunded to renters",
				},
				[]string{"denom"},
			),
			EscrowDisputes: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "escrow_disputes_total",
					Help:      "Total escrows moved into dispute",
				},
			),

			ProofsSubmitted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "proofs_submitted_total",
					Help:      "Total proofs submitted",
				},
			),
			ProofsVerified: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "proofs_verified_total",
					Help:      "Total proof verification outcomes",
				},
				[]string{"status"},
			),
			ChallengesOpened: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "challenges_opened_total",
					Help:      "Total challenges opened",
				},
			),
			ChallengesResolved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "challenges_resolved_total",
					Help:      "Total challenge outcomes",
				},
				[]string{"outcome"},
			),

			ReputationUpdates: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "reputation_updates_total",
					Help:      "Total reputation updates",
				},
				[]string{"outcome"},
			),
			HostRatings: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "host_ratings_total",
					Help:      "Total host ratings recorded",
				},
			),

			RewardsDistributed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "rewards_distributed_total",
					Help:      "Total rewards pushed into the staking pool",
				},
				[]string{"denom"},
			),
			RewardsClaimed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "rewards_claimed_total",
					Help:      "Total rewards claimed by stakers",
				},
				[]string{"denom"},
			),
			TotalStaked: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "total_staked",
					Help:      "Current pool-wide staked amount",
				},
			),

			TransferFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "grid",
					Subsystem: "settlement",
					Name:      "transfer_failures_total",
					Help:      "Outbound transfer failures after state effects",
				},
				[]string{"operation"},
			),
		}
	})
	return settlementMetrics
}

// GetSettlementMetrics returns the singleton settlement metrics instance
func GetSettlementMetrics() *SettlementMetrics {
	if settlementMetrics == nil {
		return NewSettlementMetrics()
	}
	return settlementMetrics
}

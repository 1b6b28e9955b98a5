package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Params defines the settlement module parameters.
type Params struct {
	// FeeBps is the protocol fee in basis points taken on a direct escrow
	// release that does not go through the payment splitter.
	FeeBps uint64 `json:"fee_bps"`

	// ProtocolFeeBps and StakerFeeBps are the split fee components applied
	// when a completed job settles through the payment splitter.
	ProtocolFeeBps uint64 `json:"protocol_fee_bps"`
	StakerFeeBps   uint64 `json:"staker_fee_bps"`

	// MaxCombinedFeeBps caps the sum of all fee components.
	MaxCombinedFeeBps uint64 `json:"max_combined_fee_bps"`

	// MinChallengeStake is the minimum bond required to open a challenge
	// against a submitted proof.
	MinChallengeStake math.Int `json:"min_challenge_stake"`

	// ChallengePeriodSeconds is how long a challenge stays open before it
	// can be expired in favor of the prover.
	ChallengePeriodSeconds uint64 `json:"challenge_period_seconds"`

	// MaxBatchVerify bounds the number of proofs in one batch verification.
	MaxBatchVerify uint64 `json:"max_batch_verify"`

	// MaxBatchSplit bounds the number of payments in one batch split.
	MaxBatchSplit uint64 `json:"max_batch_split"`

	// MaxProofSize bounds the proof payload size in bytes.
	MaxProofSize uint64 `json:"max_proof_size"`

	// Reputation parameters. Scores start at InitialReputation, successful
	// jobs add ReputationBonus, failures subtract ReputationPenalty, and
	// idle hosts decay DecayRateBps per DecayPeriodSeconds back toward the
	// initial score.
	InitialReputation  uint64 `json:"initial_reputation"`
	ReputationBonus    uint64 `json:"reputation_bonus"`
	ReputationPenalty  uint64 `json:"reputation_penalty"`
	DecayPeriodSeconds uint64 `json:"decay_period_seconds"`
	DecayRateBps       uint64 `json:"decay_rate_bps"`

	// MinimumStake is the smallest stake a reward staker may deposit.
	MinimumStake math.Int `json:"minimum_stake"`

	// StakeDenom is the denom staked into the reward distributor.
	StakeDenom string `json:"stake_denom"`
}

// DefaultParams returns default settlement parameters
func DefaultParams() Params {
	return Params{
		FeeBps:                 1000, // 10%
		ProtocolFeeBps:         600,  // 6%
		StakerFeeBps:           400,  // 4%
		MaxCombinedFeeBps:      3000, // 30%
		MinChallengeStake:      math.NewInt(1000000),
		ChallengePeriodSeconds: 259200, // 3 days
		MaxBatchVerify:         50,
		MaxBatchSplit:          50,
		MaxProofSize:           65536,
		InitialReputation:      100,
		ReputationBonus:        10,
		ReputationPenalty:      20,
		DecayPeriodSeconds:     604800, // 1 week
		DecayRateBps:           500,    // 5% per period
		MinimumStake:           math.NewInt(1000000),
		StakeDenom:             "ugrid",
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.FeeBps > p.MaxCombinedFeeBps {
		return fmt.Errorf("fee bps %d exceeds combined cap %d", p.FeeBps, p.MaxCombinedFeeBps)
	}
	if p.ProtocolFeeBps+p.StakerFeeBps > p.MaxCombinedFeeBps {
		return fmt.Errorf("split fee bps %d exceeds combined cap %d",
			p.ProtocolFeeBps+p.StakerFeeBps, p.MaxCombinedFeeBps)
	}
	if p.MaxCombinedFeeBps > BpsDenominator {
		return fmt.Errorf("combined fee cap %d exceeds %d bps", p.MaxCombinedFeeBps, BpsDenominator)
	}
	if p.MinChallengeStake.IsNil() || !p.MinChallengeStake.IsPositive() {
		return fmt.Errorf("minimum challenge stake must be positive")
	}
	if p.ChallengePeriodSeconds == 0 {
		return fmt.Errorf("challenge period must be positive")
	}
	if p.MaxBatchVerify == 0 || p.MaxBatchSplit == 0 {
		return fmt.Errorf("batch limits must be positive")
	}
	if p.MaxProofSize == 0 {
		return fmt.Errorf("max proof size must be positive")
	}
	if p.DecayPeriodSeconds == 0 {
		return fmt.Errorf("decay period must be positive")
	}
	if p.DecayRateBps > BpsDenominator {
		return fmt.Errorf("decay rate %d exceeds %d bps", p.DecayRateBps, BpsDenominator)
	}
	if p.MinimumStake.IsNil() || !p.MinimumStake.IsPositive() {
		return fmt.Errorf("minimum stake must be positive")
	}
	if p.StakeDenom == "" {
		return fmt.Errorf("stake denom must be set")
	}
	return nil
}

package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RatedJobEntry is the genesis form of the (host, job) rated flag.
type RatedJobEntry struct {
	Host  string `json:"host"`
	JobId uint64 `json:"job_id"`
}

// RewardDebtEntry is the genesis form of a staker's per-denom reward debt.
type RewardDebtEntry struct {
	Staker string   `json:"staker"`
	Denom  string   `json:"denom"`
	Debt   math.Int `json:"debt"`
}

// GenesisState defines the settlement module's genesis state.
type GenesisState struct {
	Params          Params             `json:"params"`
	Jobs            []Job              `json:"jobs"`
	NextJobId       uint64             `json:"next_job_id"`
	Escrows         []Escrow           `json:"escrows"`
	NextEscrowId    uint64             `json:"next_escrow_id"`
	Proofs          []ProofRecord      `json:"proofs"`
	Challenges      []Challenge        `json:"challenges"`
	NextChallengeId uint64             `json:"next_challenge_id"`
	Reputations     []HostReputation   `json:"reputations"`
	RatedJobs       []RatedJobEntry    `json:"rated_jobs"`
	Stakers         []StakerPosition   `json:"stakers"`
	RewardDebts     []RewardDebtEntry  `json:"reward_debts"`
	RewardTokens    []RewardTokenState `json:"reward_tokens"`
	TotalStaked     math.Int           `json:"total_staked"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:          DefaultParams(),
		NextJobId:       1,
		NextEscrowId:    1,
		NextChallengeId: 1,
		TotalStaked:     math.ZeroInt(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	jobIDs := make(map[uint64]bool, len(gs.Jobs))
	for _, job := range gs.Jobs {
		if job.Id == 0 || job.Id >= gs.NextJobId {
			return fmt.Errorf("job ID %d out of counter range", job.Id)
		}
		if jobIDs[job.Id] {
			return fmt.Errorf("duplicate job ID %d", job.Id)
		}
		jobIDs[job.Id] = true
		if _, err := sdk.AccAddressFromBech32(job.Renter); err != nil {
			return fmt.Errorf("job %d: invalid renter: %w", job.Id, err)
		}
		if job.Status == JOB_STATUS_CLAIMED && job.Host == "" {
			return fmt.Errorf("job %d: claimed without host", job.Id)
		}
	}

	escrowIDs := make(map[uint64]bool, len(gs.Escrows))
	for _, escrow := range gs.Escrows {
		if escrow.Id == 0 || escrow.Id >= gs.NextEscrowId {
			return fmt.Errorf("escrow ID %d out of counter range", escrow.Id)
		}
		if escrowIDs[escrow.Id] {
			return fmt.Errorf("duplicate escrow ID %d", escrow.Id)
		}
		escrowIDs[escrow.Id] = true
		if escrow.Amount.IsNil() || !escrow.Amount.IsPositive() {
			return fmt.Errorf("escrow %d: amount must be positive", escrow.Id)
		}
	}

	proofJobs := make(map[uint64]bool, len(gs.Proofs))
	for _, proof := range gs.Proofs {
		if proofJobs[proof.JobId] {
			return fmt.Errorf("duplicate proof for job %d", proof.JobId)
		}
		proofJobs[proof.JobId] = true
		if !jobIDs[proof.JobId] {
			return fmt.Errorf("proof references unknown job %d", proof.JobId)
		}
	}

	challengeIDs := make(map[uint64]bool, len(gs.Challenges))
	for _, challenge := range gs.Challenges {
		if challenge.Id == 0 || challenge.Id >= gs.NextChallengeId {
			return fmt.Errorf("challenge ID %d out of counter range", challenge.Id)
		}
		if challengeIDs[challenge.Id] {
			return fmt.Errorf("duplicate challenge ID %d", challenge.Id)
		}
		challengeIDs[challenge.Id] = true
		if challenge.Stake.IsNil() || !challenge.Stake.IsPositive() {
			return fmt.Errorf("challenge %d: stake must be positive", challenge.Id)
		}
	}

	hosts := make(map[string]bool, len(gs.Reputations))
	for _, rep := range gs.Reputations {
		if hosts[rep.Host] {
			return fmt.Errorf("duplicate reputation for host %s", rep.Host)
		}
		hosts[rep.Host] = true
		if _, err := sdk.AccAddressFromBech32(rep.Host); err != nil {
			return fmt.Errorf("invalid reputation host: %w", err)
		}
	}

	totalStaked := math.ZeroInt()
	stakers := make(map[string]bool, len(gs.Stakers))
	for _, pos := range gs.Stakers {
		if stakers[pos.Staker] {
			return fmt.Errorf("duplicate staker position for %s", pos.Staker)
		}
		stakers[pos.Staker] = true
		if pos.Amount.IsNil() || !pos.Amount.IsPositive() {
			return fmt.Errorf("staker %s: amount must be positive", pos.Staker)
		}
		totalStaked = totalStaked.Add(pos.Amount)
	}
	if gs.TotalStaked.IsNil() {
		return fmt.Errorf("total staked must be set")
	}
	if !gs.TotalStaked.Equal(totalStaked) {
		return fmt.Errorf("total staked %s does not match sum of positions %s", gs.TotalStaked, totalStaked)
	}

	for _, debt := range gs.RewardDebts {
		if !stakers[debt.Staker] {
			return fmt.Errorf("reward debt for unknown staker %s", debt.Staker)
		}
		if debt.Debt.IsNil() || debt.Debt.IsNegative() {
			return fmt.Errorf("reward debt for %s/%s must not be negative", debt.Staker, debt.Denom)
		}
	}

	denoms := make(map[string]bool, len(gs.RewardTokens))
	for _, token := range gs.RewardTokens {
		if denoms[token.Denom] {
			return fmt.Errorf("duplicate reward token %s", token.Denom)
		}
		denoms[token.Denom] = true
		if token.AccPerShare.IsNil() || token.AccPerShare.IsNegative() {
			return fmt.Errorf("reward token %s: accumulator must not be negative", token.Denom)
		}
		if token.TotalClaimed.GT(token.TotalDistributed) {
			return fmt.Errorf("reward token %s: claimed exceeds distributed", token.Denom)
		}
	}

	return nil
}

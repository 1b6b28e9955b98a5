package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// RegisterInvariants registers all settlement module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "module-balance",
		ModuleBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "job-status",
		JobStatusInvariant(k))
	ir.RegisterRoute(types.ModuleName, "challenge-index",
		ChallengeIndexInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reward-conservation",
		RewardConservationInvariant(k))
}

// AllInvariants runs all invariants of the settlement module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ModuleBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = JobStatusInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = ChallengeIndexInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return RewardConservationInvariant(k)(ctx)
	}
}

// ModuleBalanceInvariant checks that the module account holds at least the
// value it owes: open escrows, pending challenge stakes, staked capital and
// the undistributed reward pool.
func ModuleBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		required := sdk.NewCoins()

		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-balance",
				fmt.Sprintf("error reading params: %v", err)), true
		}

		store := k.getStore(ctx)

		if err := iteratePrefix(store, EscrowKeyPrefix, func(_, value []byte) error {
			var escrow types.Escrow
			if err := k.cdc.Unmarshal(value, &escrow); err != nil {
				return err
			}
			if !escrow.Status.IsTerminal() {
				required = required.Add(sdk.NewCoin(escrow.Denom, escrow.Amount))
			}
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-balance",
				fmt.Sprintf("error iterating escrows: %v", err)), true
		}

		if err := iteratePrefix(store, ChallengeKeyPrefix, func(_, value []byte) error {
			var challenge types.Challenge
			if err := k.cdc.Unmarshal(value, &challenge); err != nil {
				return err
			}
			if challenge.Status == types.CHALLENGE_STATUS_PENDING {
				required = required.Add(sdk.NewCoin(params.StakeDenom, challenge.Stake))
			}
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-balance",
				fmt.Sprintf("error iterating challenges: %v", err)), true
		}

		totalStaked := k.GetTotalStaked(ctx)
		if totalStaked.IsPositive() {
			required = required.Add(sdk.NewCoin(params.StakeDenom, totalStaked))
		}

		k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
			unclaimed := token.TotalDistributed.Sub(token.TotalClaimed)
			if unclaimed.IsPositive() {
				required = required.Add(sdk.NewCoin(token.Denom, unclaimed))
			}
			return false
		})

		moduleAddr := k.accountKeeper.GetModuleAddress(types.ModuleName)
		for _, coin := range required {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, coin.Denom)
			if balance.Amount.LT(coin.Amount) {
				return sdk.FormatInvariant(types.ModuleName, "module-balance",
					fmt.Sprintf("module account holds %s but owes %s", balance, coin)), true
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "module-balance",
			"module account covers all obligations"), false
	}
}

// JobStatusInvariant checks job lifecycle consistency: claimed jobs carry a
// host and every job's escrow exists.
func JobStatusInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		store := k.getStore(ctx)
		if err := iteratePrefix(store, JobKeyPrefix, func(_, value []byte) error {
			var job types.Job
			if err := k.cdc.Unmarshal(value, &job); err != nil {
				return err
			}
			if job.Status == types.JOB_STATUS_CLAIMED && job.Host == "" {
				broken = true
				msg = fmt.Sprintf("job %d is claimed without a host", job.Id)
				return nil
			}
			if _, err := k.GetEscrow(ctx, job.EscrowId); err != nil {
				broken = true
				msg = fmt.Sprintf("job %d references missing escrow %d", job.Id, job.EscrowId)
			}
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "job-status",
				fmt.Sprintf("error iterating jobs: %v", err)), true
		}

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "job-status", msg), true
		}
		return sdk.FormatInvariant(types.ModuleName, "job-status",
			"all jobs consistent"), false
	}
}

// ChallengeIndexInvariant checks that the pending-challenge index and the
// challenge records agree in both directions.
func ChallengeIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		store := k.getStore(ctx)

		pendingByJob := make(map[uint64]uint64)
		if err := iteratePrefix(store, ChallengeKeyPrefix, func(_, value []byte) error {
			var challenge types.Challenge
			if err := k.cdc.Unmarshal(value, &challenge); err != nil {
				return err
			}
			if challenge.Status != types.CHALLENGE_STATUS_PENDING {
				return nil
			}
			if other, dup := pendingByJob[challenge.JobId]; dup {
				return fmt.Errorf("job %d has two pending challenges %d and %d", challenge.JobId, other, challenge.Id)
			}
			pendingByJob[challenge.JobId] = challenge.Id
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "challenge-index",
				err.Error()), true
		}

		for jobID, challengeID := range pendingByJob {
			indexed, found := k.getPendingChallengeID(ctx, jobID)
			if !found || indexed != challengeID {
				return sdk.FormatInvariant(types.ModuleName, "challenge-index",
					fmt.Sprintf("pending challenge %d for job %d is not indexed", challengeID, jobID)), true
			}
		}

		indexed := 0
		if err := iteratePrefix(store, PendingChallengeByJobPrefix, func(key, value []byte) error {
			indexed++
			jobID := GetIDFromBytes(key[len(PendingChallengeByJobPrefix):])
			challengeID := GetIDFromBytes(value)
			if want, ok := pendingByJob[jobID]; !ok || want != challengeID {
				return fmt.Errorf("index maps job %d to challenge %d with no pending record", jobID, challengeID)
			}
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "challenge-index",
				err.Error()), true
		}
		if indexed != len(pendingByJob) {
			return sdk.FormatInvariant(types.ModuleName, "challenge-index",
				fmt.Sprintf("%d index entries for %d pending challenges", indexed, len(pendingByJob))), true
		}

		return sdk.FormatInvariant(types.ModuleName, "challenge-index",
			"pending challenge index consistent"), false
	}
}

// RewardConservationInvariant checks that per token, claimed never exceeds
// distributed and the sum of staker entitlements fits in the unclaimed pool.
func RewardConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		store := k.getStore(ctx)

		var stakers []sdk.AccAddress
		if err := iteratePrefix(store, StakerKeyPrefix, func(key, _ []byte) error {
			stakers = append(stakers, sdk.AccAddress(key[len(StakerKeyPrefix):]))
			return nil
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reward-conservation",
				fmt.Sprintf("error iterating stakers: %v", err)), true
		}

		var (
			broken bool
			msg    string
		)
		k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
			if token.TotalClaimed.GT(token.TotalDistributed) {
				broken = true
				msg = fmt.Sprintf("token %s claimed %s exceeds distributed %s",
					token.Denom, token.TotalClaimed, token.TotalDistributed)
				return true
			}

			pending := math.ZeroInt()
			for _, staker := range stakers {
				pending = pending.Add(k.PendingReward(ctx, staker, token.Denom))
			}
			unclaimed := token.TotalDistributed.Sub(token.TotalClaimed)
			if pending.GT(unclaimed) {
				broken = true
				msg = fmt.Sprintf("token %s pending %s exceeds unclaimed pool %s",
					token.Denom, pending, unclaimed)
				return true
			}
			return false
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "reward-conservation", msg), true
		}
		return sdk.FormatInvariant(types.ModuleName, "reward-conservation",
			"reward accounting conserved"), false
	}
}

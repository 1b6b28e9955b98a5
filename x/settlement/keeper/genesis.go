package keeper

import (
	"context"
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// InitGenesis writes the genesis state into the store and rebuilds every
// secondary index from the primary records.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid settlement genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	store := k.getStore(ctx)

	for _, job := range genState.Jobs {
		k.setJob(ctx, job)

		renter, err := sdk.AccAddressFromBech32(job.Renter)
		if err != nil {
			return fmt.Errorf("job %d: invalid renter: %w", job.Id, err)
		}
		store.Set(JobByRenterKey(renter, job.Id), []byte{})
		store.Set(JobByStatusKey(uint32(job.Status), job.Id), []byte{})

		if job.Host != "" {
			host, err := sdk.AccAddressFromBech32(job.Host)
			if err != nil {
				return fmt.Errorf("job %d: invalid host: %w", job.Id, err)
			}
			store.Set(JobByHostKey(host, job.Id), []byte{})
		}
	}
	setCounter(store, NextJobIDKey, genState.NextJobId)

	for _, escrow := range genState.Escrows {
		k.setEscrow(ctx, escrow)
	}
	setCounter(store, NextEscrowIDKey, genState.NextEscrowId)

	for _, proof := range genState.Proofs {
		k.setProof(ctx, proof)
	}

	for _, challenge := range genState.Challenges {
		k.setChallenge(ctx, challenge)
		if challenge.Status == types.CHALLENGE_STATUS_PENDING {
			k.setPendingChallengeID(ctx, challenge.JobId, challenge.Id)
		}
	}
	setCounter(store, NextChallengeIDKey, genState.NextChallengeId)

	for _, rep := range genState.Reputations {
		k.setReputation(ctx, rep)
	}

	for _, rated := range genState.RatedJobs {
		host, err := sdk.AccAddressFromBech32(rated.Host)
		if err != nil {
			return fmt.Errorf("rated job %d: invalid host: %w", rated.JobId, err)
		}
		store.Set(RatedJobKey(host, rated.JobId), []byte{1})
	}

	for _, position := range genState.Stakers {
		k.setStakerPosition(ctx, position)
	}

	for _, debt := range genState.RewardDebts {
		staker, err := sdk.AccAddressFromBech32(debt.Staker)
		if err != nil {
			return fmt.Errorf("reward debt: invalid staker: %w", err)
		}
		k.setRewardDebt(ctx, staker, debt.Denom, debt.Debt)
	}

	for _, token := range genState.RewardTokens {
		k.setRewardToken(ctx, token)
	}

	k.setTotalStaked(ctx, genState.TotalStaked)
	k.metrics.TotalStaked.Set(floatAmount(genState.TotalStaked))

	return nil
}

// ExportGenesis reads the full module state back out of the store.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	store := k.getStore(ctx)

	genState := types.GenesisState{
		NextJobId:       getCounter(store, NextJobIDKey),
		NextEscrowId:    getCounter(store, NextEscrowIDKey),
		NextChallengeId: getCounter(store, NextChallengeIDKey),
		TotalStaked:     k.GetTotalStaked(ctx),
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	genState.Params = params

	if err := iteratePrefix(store, JobKeyPrefix, func(_, value []byte) error {
		var job types.Job
		if err := k.cdc.Unmarshal(value, &job); err != nil {
			return fmt.Errorf("job unmarshal: %w", err)
		}
		genState.Jobs = append(genState.Jobs, job)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := iteratePrefix(store, EscrowKeyPrefix, func(_, value []byte) error {
		var escrow types.Escrow
		if err := k.cdc.Unmarshal(value, &escrow); err != nil {
			return fmt.Errorf("escrow unmarshal: %w", err)
		}
		genState.Escrows = append(genState.Escrows, escrow)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := iteratePrefix(store, ProofKeyPrefix, func(_, value []byte) error {
		var proof types.ProofRecord
		if err := k.cdc.Unmarshal(value, &proof); err != nil {
			return fmt.Errorf("proof unmarshal: %w", err)
		}
		genState.Proofs = append(genState.Proofs, proof)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := iteratePrefix(store, ChallengeKeyPrefix, func(_, value []byte) error {
		var challenge types.Challenge
		if err := k.cdc.Unmarshal(value, &challenge); err != nil {
			return fmt.Errorf("challenge unmarshal: %w", err)
		}
		genState.Challenges = append(genState.Challenges, challenge)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := iteratePrefix(store, ReputationKeyPrefix, func(_, value []byte) error {
		var rep types.HostReputation
		if err := k.cdc.Unmarshal(value, &rep); err != nil {
			return fmt.Errorf("reputation unmarshal: %w", err)
		}
		genState.Reputations = append(genState.Reputations, rep)
		return nil
	}); err != nil {
		return nil, err
	}

	// Rated flag keys are prefix + host bytes + 8-byte job id.
	if err := iteratePrefix(store, RatedJobKeyPrefix, func(key, _ []byte) error {
		rest := key[len(RatedJobKeyPrefix):]
		if len(rest) <= 8 {
			return fmt.Errorf("malformed rated job key %x", key)
		}
		host := sdk.AccAddress(rest[:len(rest)-8])
		jobID := GetIDFromBytes(rest[len(rest)-8:])
		genState.RatedJobs = append(genState.RatedJobs, types.RatedJobEntry{
			Host:  host.String(),
			JobId: jobID,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := iteratePrefix(store, StakerKeyPrefix, func(_, value []byte) error {
		var position types.StakerPosition
		if err := k.cdc.Unmarshal(value, &position); err != nil {
			return fmt.Errorf("staker position unmarshal: %w", err)
		}
		genState.Stakers = append(genState.Stakers, position)
		return nil
	}); err != nil {
		return nil, err
	}

	// Debt keys are prefix + length-prefixed staker bytes + denom.
	if err := iteratePrefix(store, RewardDebtKeyPrefix, func(key, value []byte) error {
		rest := key[len(RewardDebtKeyPrefix):]
		if len(rest) < 2 {
			return fmt.Errorf("malformed reward debt key %x", key)
		}
		addrLen := int(rest[0])
		if len(rest) < 1+addrLen+1 {
			return fmt.Errorf("malformed reward debt key %x", key)
		}
		staker := sdk.AccAddress(rest[1 : 1+addrLen])
		denom := string(rest[1+addrLen:])

		var debt math.Int
		if err := debt.Unmarshal(value); err != nil {
			return fmt.Errorf("reward debt unmarshal: %w", err)
		}
		genState.RewardDebts = append(genState.RewardDebts, types.RewardDebtEntry{
			Staker: staker.String(),
			Denom:  denom,
			Debt:   debt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
		genState.RewardTokens = append(genState.RewardTokens, token)
		return false
	})

	return &genState, nil
}

func iteratePrefix(store storetypes.KVStore, prefix []byte, fn func(key, value []byte) error) error {
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		if err := fn(iterator.Key(), iterator.Value()); err != nil {
			return err
		}
	}
	return nil
}

func setCounter(store storetypes.KVStore, key []byte, value uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, value)
	store.Set(key, bz)
}

func getCounter(store storetypes.KVStore, key []byte) uint64 {
	bz := store.Get(key)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

package keeper

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// ChallengeProof opens a bonded challenge against a Verified proof. The
// stake locks into the module account for the challenge period; one open
// challenge per job at a time.
func (k Keeper) ChallengeProof(ctx context.Context, jobID uint64, challenger sdk.AccAddress, evidenceHash string, stake math.Int) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	proof, err := k.GetProof(ctx, jobID)
	if err != nil {
		return 0, err
	}
	if proof.Status != types.PROOF_STATUS_VERIFIED {
		return 0, types.ErrProofNotVerified.Wrapf("proof for job %d is %s", jobID, proof.Status)
	}

	if _, found := k.getPendingChallengeID(ctx, jobID); found {
		return 0, types.ErrChallengeActive.Wrapf("job %d already has an open challenge", jobID)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	if stake.LT(params.MinChallengeStake) {
		return 0, types.ErrInsufficientStake.Wrapf("stake %s below minimum %s", stake, params.MinChallengeStake)
	}
	if evidenceHash == "" {
		return 0, types.ErrEmptyReference.Wrap("evidence hash is required")
	}

	coins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, stake))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, challenger, types.ModuleName, coins); err != nil {
		return 0, types.ErrInsufficientFunds.Wrapf("failed to lock challenge stake: %v", err)
	}

	now := sdkCtx.BlockTime()
	challengeID := k.nextID(ctx, NextChallengeIDKey)
	challenge := types.Challenge{
		Id:           challengeID,
		JobId:        jobID,
		Challenger:   challenger.String(),
		Stake:        stake,
		EvidenceHash: evidenceHash,
		Status:       types.CHALLENGE_STATUS_PENDING,
		Deadline:     now.Add(time.Duration(params.ChallengePeriodSeconds) * time.Second),
		CreatedAt:    now,
	}
	k.setChallenge(ctx, challenge)
	k.setPendingChallengeID(ctx, jobID, challengeID)

	k.metrics.ChallengesOpened.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChallengeOpened,
			sdk.NewAttribute(types.AttributeKeyChallengeID, fmt.Sprintf("%d", challengeID)),
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyChallenger, challenger.String()),
			sdk.NewAttribute(types.AttributeKeyStake, stake.String()),
			sdk.NewAttribute(types.AttributeKeyDeadline, challenge.Deadline.Format(time.RFC3339)),
		),
	)

	return challengeID, nil
}

// ResolveChallenge settles a pending challenge before its deadline. A
// successful challenge flips the proof to Invalid, returns the stake to the
// challenger and records a reputation failure for the prover. An
// unsuccessful one forwards the stake to the prover as compensation.
// Authority gating happens in the msg server.
func (k Keeper) ResolveChallenge(ctx context.Context, challengeID uint64, successful bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	challenge, err := k.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.Status != types.CHALLENGE_STATUS_PENDING {
		return types.ErrChallengeNotPending.Wrapf("challenge %d is %s", challengeID, challenge.Status)
	}

	now := sdkCtx.BlockTime()
	if now.After(challenge.Deadline) {
		return types.ErrChallengeExpired.Wrapf("challenge %d deadline passed, use expiry", challengeID)
	}

	proof, err := k.GetProof(ctx, challenge.JobId)
	if err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	// Effects before the stake transfer.
	if successful {
		challenge.Status = types.CHALLENGE_STATUS_SUCCESSFUL
	} else {
		challenge.Status = types.CHALLENGE_STATUS_FAILED
	}
	k.setChallenge(ctx, challenge)
	k.clearPendingChallengeID(ctx, challenge.JobId)

	if successful {
		proof.Status = types.PROOF_STATUS_INVALID
		k.setProof(ctx, proof)

		challenger, err := sdk.AccAddressFromBech32(challenge.Challenger)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("challenger: %v", err)
		}
		if err := k.payOut(ctx, challenger, challenge.Stake, params.StakeDenom, "resolve_challenge"); err != nil {
			return err
		}

		prover, err := sdk.AccAddressFromBech32(proof.Prover)
		if err == nil {
			if repErr := k.RecordJobCompletion(ctx, prover, challenge.JobId, false); repErr != nil {
				return repErr
			}
		}
	} else {
		if err := k.forwardStakeToProver(ctx, challenge, proof, params.StakeDenom, "resolve_challenge"); err != nil {
			return err
		}
	}

	outcome := "failed"
	if successful {
		outcome = "successful"
	}
	k.metrics.ChallengesResolved.WithLabelValues(outcome).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChallengeResolved,
			sdk.NewAttribute(types.AttributeKeyChallengeID, fmt.Sprintf("%d", challengeID)),
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", challenge.JobId)),
			sdk.NewAttribute(types.AttributeKeySuccess, fmt.Sprintf("%t", successful)),
			sdk.NewAttribute(types.AttributeKeyStake, challenge.Stake.String()),
		),
	)

	return nil
}

// ExpireChallenge fails a pending challenge whose deadline has passed and
// forwards the stake to the prover. Anyone may call it; unresolved
// challenges must not block settlement forever.
func (k Keeper) ExpireChallenge(ctx context.Context, challengeID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	challenge, err := k.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.Status != types.CHALLENGE_STATUS_PENDING {
		return types.ErrChallengeNotPending.Wrapf("challenge %d is %s", challengeID, challenge.Status)
	}

	now := sdkCtx.BlockTime()
	if !now.After(challenge.Deadline) {
		return types.ErrChallengeActive.Wrapf("challenge %d deadline not reached", challengeID)
	}

	proof, err := k.GetProof(ctx, challenge.JobId)
	if err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	challenge.Status = types.CHALLENGE_STATUS_FAILED
	k.setChallenge(ctx, challenge)
	k.clearPendingChallengeID(ctx, challenge.JobId)

	if err := k.forwardStakeToProver(ctx, challenge, proof, params.StakeDenom, "expire_challenge"); err != nil {
		return err
	}

	k.metrics.ChallengesResolved.WithLabelValues("expired").Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChallengeExpired,
			sdk.NewAttribute(types.AttributeKeyChallengeID, fmt.Sprintf("%d", challengeID)),
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", challenge.JobId)),
			sdk.NewAttribute(types.AttributeKeyStake, challenge.Stake.String()),
		),
	)

	return nil
}

func (k Keeper) forwardStakeToProver(ctx context.Context, challenge types.Challenge, proof types.ProofRecord, denom, operation string) error {
	prover, err := sdk.AccAddressFromBech32(proof.Prover)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("prover: %v", err)
	}
	return k.payOut(ctx, prover, challenge.Stake, denom, operation)
}

// GetChallenge retrieves a challenge by ID
func (k Keeper) GetChallenge(ctx context.Context, challengeID uint64) (types.Challenge, error) {
	store := k.getStore(ctx)
	bz := store.Get(ChallengeKey(challengeID))
	if bz == nil {
		return types.Challenge{}, types.ErrChallengeNotFound.Wrapf("challenge %d", challengeID)
	}

	var challenge types.Challenge
	if err := k.cdc.Unmarshal(bz, &challenge); err != nil {
		return types.Challenge{}, fmt.Errorf("GetChallenge: unmarshal: %w", err)
	}
	return challenge, nil
}

func (k Keeper) setChallenge(ctx context.Context, challenge types.Challenge) {
	store := k.getStore(ctx)
	store.Set(ChallengeKey(challenge.Id), k.mustMarshal(&challenge))
}

func (k Keeper) getPendingChallengeID(ctx context.Context, jobID uint64) (uint64, bool) {
	store := k.getStore(ctx)
	bz := store.Get(PendingChallengeByJobKey(jobID))
	if bz == nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(bz), true
}

func (k Keeper) setPendingChallengeID(ctx context.Context, jobID, challengeID uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, challengeID)
	store.Set(PendingChallengeByJobKey(jobID), bz)
}

func (k Keeper) clearPendingChallengeID(ctx context.Context, jobID uint64) {
	store := k.getStore(ctx)
	store.Delete(PendingChallengeByJobKey(jobID))
}

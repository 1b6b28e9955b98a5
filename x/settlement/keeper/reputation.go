package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// RecordJobCompletion updates a host's reputation for a job outcome. The
// score lazily initializes to the configured constant on first contact,
// gains a fixed bonus on success and loses a fixed penalty, floored at
// zero, on failure.
func (k Keeper) RecordJobCompletion(ctx context.Context, host sdk.AccAddress, jobID uint64, success bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	now := sdkCtx.BlockTime()
	rep := k.loadOrInitReputation(ctx, host, params)

	// Settle accrued decay into the stored score before applying the delta,
	// since stamping the activity time resets the decay clock.
	rep.Score = decayedScore(rep, now, params)

	outcome := "failure"
	if success {
		rep.Score += params.ReputationBonus
		outcome = "success"
	} else if rep.Score > params.ReputationPenalty {
		rep.Score -= params.ReputationPenalty
	} else {
		rep.Score = 0
	}
	rep.LastActivityTime = now
	k.setReputation(ctx, rep)

	k.metrics.ReputationUpdates.WithLabelValues(outcome).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReputationUpdated,
			sdk.NewAttribute(types.AttributeKeyHost, rep.Host),
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyScore, fmt.Sprintf("%d", rep.Score)),
			sdk.NewAttribute(types.AttributeKeySuccess, fmt.Sprintf("%t", success)),
		),
	)

	return nil
}

// GetHostReputation returns a host's reputation with decay applied at read
// time. The stored record is not rewritten on read.
func (k Keeper) GetHostReputation(ctx context.Context, host sdk.AccAddress) (types.HostReputation, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	rep, found := k.getReputation(ctx, host)
	if !found {
		return types.HostReputation{}, types.ErrReputationNotFound.Wrapf("host %s", host)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.HostReputation{}, err
	}

	rep.Score = decayedScore(rep, sdkCtx.BlockTime(), params)
	return rep, nil
}

// RateHost records the renter's 1-5 rating of a completed job's host, once
// per job. Ratings of 4 and above grant a small score bonus.
func (k Keeper) RateHost(ctx context.Context, renter sdk.AccAddress, jobID uint64, rating uint32, feedback string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if rating < 1 || rating > 5 {
		return types.ErrInvalidRating.Wrapf("rating %d out of range 1-5", rating)
	}

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JOB_STATUS_COMPLETED {
		return types.ErrWrongJobState.Wrapf("job %d is %s", jobID, job.Status)
	}
	if job.Renter != renter.String() {
		return types.ErrNotRenter.Wrapf("only the job renter may rate job %d", jobID)
	}

	host, err := sdk.AccAddressFromBech32(job.Host)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("job host: %v", err)
	}

	store := k.getStore(ctx)
	ratedKey := RatedJobKey(host, jobID)
	if store.Has(ratedKey) {
		return types.ErrAlreadyRated.Wrapf("job %d already rated", jobID)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	now := sdkCtx.BlockTime()
	rep := k.loadOrInitReputation(ctx, host, params)
	rep.Score = decayedScore(rep, now, params)
	rep.TotalRatings++
	rep.RatingSum += uint64(rating)
	if rating >= 4 {
		rep.Score += uint64(rating-3) * 2
	}
	rep.LastActivityTime = now
	k.setReputation(ctx, rep)

	store.Set(ratedKey, []byte{1})

	k.metrics.HostRatings.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeHostRated,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, rep.Host),
			sdk.NewAttribute(types.AttributeKeyRating, fmt.Sprintf("%d", rating)),
			sdk.NewAttribute(types.AttributeKeyFeedback, feedback),
			sdk.NewAttribute(types.AttributeKeyScore, fmt.Sprintf("%d", rep.Score)),
		),
	)

	return nil
}

// GetAverageRating returns the mean of all ratings for a host, zero if the
// host has none.
func (k Keeper) GetAverageRating(ctx context.Context, host sdk.AccAddress) (math.LegacyDec, error) {
	rep, found := k.getReputation(ctx, host)
	if !found {
		return math.LegacyZeroDec(), types.ErrReputationNotFound.Wrapf("host %s", host)
	}
	if rep.TotalRatings == 0 {
		return math.LegacyZeroDec(), nil
	}
	return math.LegacyNewDec(int64(rep.RatingSum)).QuoInt64(int64(rep.TotalRatings)), nil
}

// GetTopHosts returns up to n hosts ranked by decayed score, best first.
// Insertion ranking; fine at directory scale, a sorted index would replace
// it under load.
func (k Keeper) GetTopHosts(ctx context.Context, n int) ([]types.HostReputation, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	now := sdkCtx.BlockTime()

	var top []types.HostReputation
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ReputationKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var rep types.HostReputation
		if err := k.cdc.Unmarshal(iterator.Value(), &rep); err != nil {
			return nil, fmt.Errorf("GetTopHosts: unmarshal: %w", err)
		}
		rep.Score = decayedScore(rep, now, params)

		pos := len(top)
		for i, existing := range top {
			if rep.Score > existing.Score {
				pos = i
				break
			}
		}
		top = append(top, types.HostReputation{})
		copy(top[pos+1:], top[pos:])
		top[pos] = rep
		if len(top) > n {
			top = top[:n]
		}
	}

	return top, nil
}

// SlashReputation cuts a host's score by a percentage. Authority gating
// happens in the msg server.
func (k Keeper) SlashReputation(ctx context.Context, host sdk.AccAddress, percentage uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if percentage == 0 || percentage > 100 {
		return types.ErrInvalidAmount.Wrapf("slash percentage %d out of range 1-100", percentage)
	}

	rep, found := k.getReputation(ctx, host)
	if !found {
		return types.ErrReputationNotFound.Wrapf("host %s", host)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	now := sdkCtx.BlockTime()
	rep.Score = decayedScore(rep, now, params)
	rep.Score -= rep.Score * percentage / 100
	rep.LastActivityTime = now
	k.setReputation(ctx, rep)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReputationSlashed,
			sdk.NewAttribute(types.AttributeKeyHost, rep.Host),
			sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", percentage)),
			sdk.NewAttribute(types.AttributeKeyScore, fmt.Sprintf("%d", rep.Score)),
		),
	)

	return nil
}

func (k Keeper) loadOrInitReputation(ctx context.Context, host sdk.AccAddress, params types.Params) types.HostReputation {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	rep, found := k.getReputation(ctx, host)
	if !found {
		rep = types.HostReputation{
			Host:             host.String(),
			Score:            params.InitialReputation,
			LastActivityTime: sdkCtx.BlockTime(),
		}
	}
	return rep
}

func (k Keeper) getReputation(ctx context.Context, host sdk.AccAddress) (types.HostReputation, bool) {
	store := k.getStore(ctx)
	bz := store.Get(ReputationKey(host))
	if bz == nil {
		return types.HostReputation{}, false
	}

	var rep types.HostReputation
	if err := k.cdc.Unmarshal(bz, &rep); err != nil {
		panic(fmt.Errorf("reputation unmarshal: %w", err))
	}
	return rep, true
}

func (k Keeper) setReputation(ctx context.Context, rep types.HostReputation) {
	host, err := sdk.AccAddressFromBech32(rep.Host)
	if err != nil {
		panic(fmt.Errorf("reputation host address: %w", err))
	}
	store := k.getStore(ctx)
	store.Set(ReputationKey(host), k.mustMarshal(&rep))
}

// decayedScore applies compounding inactivity decay to a stored score.
// Scores at or below the initial constant never decay, and once cumulative
// decay would drop below the initial constant the score resets to it rather
// than continuing toward zero.
func decayedScore(rep types.HostReputation, now time.Time, params types.Params) uint64 {
	score := rep.Score
	if score <= params.InitialReputation {
		return score
	}
	if params.DecayPeriodSeconds == 0 || !now.After(rep.LastActivityTime) {
		return score
	}

	elapsed := uint64(now.Sub(rep.LastActivityTime).Seconds())
	periods := elapsed / params.DecayPeriodSeconds

	for i := uint64(0); i < periods; i++ {
		dec := score * params.DecayRateBps / types.BpsDenominator
		if dec == 0 {
			break
		}
		if score-dec < params.InitialReputation {
			return params.InitialReputation
		}
		score -= dec
		if score == params.InitialReputation {
			break
		}
	}
	return score
}

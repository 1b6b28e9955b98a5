package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// UpdateStake sets a staker's position to an absolute amount. Before the
// stake changes, every known reward token settles its pending amount to the
// staker, so rewards are neither lost nor double counted across the
// boundary. The new amount must be zero or at least the configured minimum.
func (k Keeper) UpdateStake(ctx context.Context, staker sdk.AccAddress, newAmount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if newAmount.IsNil() || newAmount.IsNegative() {
		return types.ErrInvalidAmount.Wrap("stake must not be negative")
	}
	if !newAmount.IsZero() && newAmount.LT(params.MinimumStake) {
		return types.ErrInsufficientStake.Wrapf("stake %s below minimum %s", newAmount, params.MinimumStake)
	}

	position, found := k.GetStakerPosition(ctx, staker)
	current := math.ZeroInt()
	if found {
		current = position.Amount
	}

	if err := k.settlePendingRewards(ctx, staker, current); err != nil {
		return err
	}

	// Move the stake delta before rewriting the position so an insufficient
	// deposit cannot leave a phantom stake behind.
	if newAmount.GT(current) {
		delta := newAmount.Sub(current)
		coins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, delta))
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, staker, types.ModuleName, coins); err != nil {
			return types.ErrInsufficientFunds.Wrapf("failed to lock stake: %v", err)
		}
	}

	totalStaked := k.GetTotalStaked(ctx).Sub(current).Add(newAmount)
	k.setTotalStaked(ctx, totalStaked)

	if newAmount.IsZero() {
		k.deleteStakerPosition(ctx, staker)
		k.clearRewardDebts(ctx, staker)
	} else {
		k.setStakerPosition(ctx, types.StakerPosition{Staker: staker.String(), Amount: newAmount})
		k.checkpointRewardDebts(ctx, staker, newAmount)
	}

	if newAmount.LT(current) {
		delta := current.Sub(newAmount)
		if err := k.payOut(ctx, staker, delta, params.StakeDenom, "update_stake"); err != nil {
			return err
		}
	}

	k.metrics.TotalStaked.Set(floatAmount(totalStaked))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakeUpdated,
			sdk.NewAttribute(types.AttributeKeyStaker, staker.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, newAmount.String()),
		),
	)

	return nil
}

// DistributeRewards pulls a reward inflow from the funder's account and
// spreads it across the staking pool through the per-share accumulator.
func (k Keeper) DistributeRewards(ctx context.Context, funder sdk.AccAddress, denom string, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("reward amount must be positive")
	}
	if !k.GetTotalStaked(ctx).IsPositive() {
		return types.ErrNoStake.Wrap("no stake to distribute rewards over")
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, funder, types.ModuleName, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("failed to fund rewards: %v", err)
	}

	return k.creditRewardPool(ctx, denom, amount)
}

// creditRewardPool advances the per-share accumulator for coins that are
// already held by the module account. Registers the denom on first use.
func (k Keeper) creditRewardPool(ctx context.Context, denom string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	totalStaked := k.GetTotalStaked(ctx)
	if !totalStaked.IsPositive() {
		return types.ErrNoStake.Wrap("no stake to distribute rewards over")
	}

	token, found := k.GetRewardToken(ctx, denom)
	if !found {
		token = types.RewardTokenState{
			Denom:            denom,
			AccPerShare:      math.ZeroInt(),
			TotalDistributed: math.ZeroInt(),
			TotalClaimed:     math.ZeroInt(),
		}
	}

	token.AccPerShare = token.AccPerShare.Add(amount.Mul(types.RewardScale()).Quo(totalStaked))
	token.TotalDistributed = token.TotalDistributed.Add(amount)
	k.setRewardToken(ctx, token)

	k.metrics.RewardsDistributed.WithLabelValues(denom).Add(floatAmount(amount))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardsDistributed,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyAccPerShare, token.AccPerShare.String()),
		),
	)

	return nil
}

// PendingReward returns the staker's unclaimed entitlement in one denom.
func (k Keeper) PendingReward(ctx context.Context, staker sdk.AccAddress, denom string) math.Int {
	position, found := k.GetStakerPosition(ctx, staker)
	if !found {
		return math.ZeroInt()
	}

	token, found := k.GetRewardToken(ctx, denom)
	if !found {
		return math.ZeroInt()
	}

	entitled := position.Amount.Mul(token.AccPerShare).Quo(types.RewardScale())
	pending := entitled.Sub(k.getRewardDebt(ctx, staker, denom))
	if pending.IsNegative() {
		return math.ZeroInt()
	}
	return pending
}

// ClaimReward pays out the staker's pending amount in one denom and locks in
// the current accumulator checkpoint.
func (k Keeper) ClaimReward(ctx context.Context, staker sdk.AccAddress, denom string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	position, found := k.GetStakerPosition(ctx, staker)
	if !found {
		return math.Int{}, types.ErrNoStake.Wrapf("%s has no stake", staker)
	}

	pending := k.PendingReward(ctx, staker, denom)
	if !pending.IsPositive() {
		return math.Int{}, types.ErrNothingToClaim.Wrapf("no pending %s reward", denom)
	}

	// Effects before the payout transfer.
	k.checkpointRewardDebt(ctx, staker, position.Amount, denom)
	k.addClaimed(ctx, denom, pending)

	if err := k.payOut(ctx, staker, pending, denom, "claim_reward"); err != nil {
		return math.Int{}, err
	}

	k.metrics.RewardsClaimed.WithLabelValues(denom).Add(floatAmount(pending))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardClaimed,
			sdk.NewAttribute(types.AttributeKeyStaker, staker.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, pending.String()),
		),
	)

	return pending, nil
}

// ClaimAllRewards pays out the staker's pending amount in every known denom.
func (k Keeper) ClaimAllRewards(ctx context.Context, staker sdk.AccAddress) (sdk.Coins, error) {
	position, found := k.GetStakerPosition(ctx, staker)
	if !found {
		return nil, types.ErrNoStake.Wrapf("%s has no stake", staker)
	}

	claimed := sdk.NewCoins()
	var denoms []string
	k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
		denoms = append(denoms, token.Denom)
		return false
	})

	for _, denom := range denoms {
		pending := k.PendingReward(ctx, staker, denom)
		if !pending.IsPositive() {
			continue
		}

		k.checkpointRewardDebt(ctx, staker, position.Amount, denom)
		k.addClaimed(ctx, denom, pending)

		if err := k.payOut(ctx, staker, pending, denom, "claim_all_rewards"); err != nil {
			return nil, err
		}

		k.metrics.RewardsClaimed.WithLabelValues(denom).Add(floatAmount(pending))
		claimed = claimed.Add(sdk.NewCoin(denom, pending))
	}

	if claimed.IsZero() {
		return nil, types.ErrNothingToClaim.Wrapf("%s has no pending rewards", staker)
	}

	return claimed, nil
}

// CompoundRewards folds the staking-denom pending reward directly into the
// stake, no transfer needed, and settles every other denom by paying it out.
func (k Keeper) CompoundRewards(ctx context.Context, staker sdk.AccAddress) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	position, found := k.GetStakerPosition(ctx, staker)
	if !found {
		return math.Int{}, types.ErrNoStake.Wrapf("%s has no stake", staker)
	}

	pending := k.PendingReward(ctx, staker, params.StakeDenom)
	if !pending.IsPositive() {
		return math.Int{}, types.ErrNothingToClaim.Wrapf("no pending %s reward to compound", params.StakeDenom)
	}

	// Pay out the other denoms at the old stake before it grows.
	var otherDenoms []string
	k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
		if token.Denom != params.StakeDenom {
			otherDenoms = append(otherDenoms, token.Denom)
		}
		return false
	})
	for _, denom := range otherDenoms {
		otherPending := k.PendingReward(ctx, staker, denom)
		if !otherPending.IsPositive() {
			continue
		}
		k.checkpointRewardDebt(ctx, staker, position.Amount, denom)
		k.addClaimed(ctx, denom, otherPending)
		if err := k.payOut(ctx, staker, otherPending, denom, "compound_rewards"); err != nil {
			return math.Int{}, err
		}
	}

	newAmount := position.Amount.Add(pending)
	k.setStakerPosition(ctx, types.StakerPosition{Staker: staker.String(), Amount: newAmount})
	k.setTotalStaked(ctx, k.GetTotalStaked(ctx).Add(pending))
	k.checkpointRewardDebts(ctx, staker, newAmount)
	k.addClaimed(ctx, params.StakeDenom, pending)

	k.metrics.TotalStaked.Set(floatAmount(k.GetTotalStaked(ctx)))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewardsCompounded,
			sdk.NewAttribute(types.AttributeKeyStaker, staker.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, pending.String()),
		),
	)

	return pending, nil
}

// EmergencyWithdraw returns the full stake immediately, forfeiting all
// pending rewards across every denom. Forfeited amounts stay in the pool.
func (k Keeper) EmergencyWithdraw(ctx context.Context, staker sdk.AccAddress) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	position, found := k.GetStakerPosition(ctx, staker)
	if !found {
		return math.Int{}, types.ErrNoStake.Wrapf("%s has no stake", staker)
	}

	// Effects before the stake transfer.
	k.deleteStakerPosition(ctx, staker)
	k.clearRewardDebts(ctx, staker)
	totalStaked := k.GetTotalStaked(ctx).Sub(position.Amount)
	k.setTotalStaked(ctx, totalStaked)

	if err := k.payOut(ctx, staker, position.Amount, params.StakeDenom, "emergency_withdraw"); err != nil {
		return math.Int{}, err
	}

	k.metrics.TotalStaked.Set(floatAmount(totalStaked))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyWithdraw,
			sdk.NewAttribute(types.AttributeKeyStaker, staker.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, position.Amount.String()),
		),
	)

	return position.Amount, nil
}

// settlePendingRewards pays out the staker's pending amount in every known
// denom at the current stake. Used on stake boundaries.
func (k Keeper) settlePendingRewards(ctx context.Context, staker sdk.AccAddress, currentStake math.Int) error {
	if !currentStake.IsPositive() {
		return nil
	}

	var denoms []string
	k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
		denoms = append(denoms, token.Denom)
		return false
	})

	for _, denom := range denoms {
		pending := k.PendingReward(ctx, staker, denom)
		if !pending.IsPositive() {
			continue
		}
		k.checkpointRewardDebt(ctx, staker, currentStake, denom)
		k.addClaimed(ctx, denom, pending)
		if err := k.payOut(ctx, staker, pending, denom, "settle_rewards"); err != nil {
			return err
		}
		k.metrics.RewardsClaimed.WithLabelValues(denom).Add(floatAmount(pending))
	}

	return nil
}

// checkpointRewardDebts rewrites the staker's debt in every known denom to
// the current accumulator at the given stake.
func (k Keeper) checkpointRewardDebts(ctx context.Context, staker sdk.AccAddress, stake math.Int) {
	k.iterateRewardTokens(ctx, func(token types.RewardTokenState) bool {
		debt := stake.Mul(token.AccPerShare).Quo(types.RewardScale())
		k.setRewardDebt(ctx, staker, token.Denom, debt)
		return false
	})
}

func (k Keeper) checkpointRewardDebt(ctx context.Context, staker sdk.AccAddress, stake math.Int, denom string) {
	token, found := k.GetRewardToken(ctx, denom)
	if !found {
		return
	}
	debt := stake.Mul(token.AccPerShare).Quo(types.RewardScale())
	k.setRewardDebt(ctx, staker, denom, debt)
}

func (k Keeper) addClaimed(ctx context.Context, denom string, amount math.Int) {
	token, found := k.GetRewardToken(ctx, denom)
	if !found {
		return
	}
	token.TotalClaimed = token.TotalClaimed.Add(amount)
	k.setRewardToken(ctx, token)
}

// GetStakerPosition retrieves a staker's position
func (k Keeper) GetStakerPosition(ctx context.Context, staker sdk.AccAddress) (types.StakerPosition, bool) {
	store := k.getStore(ctx)
	bz := store.Get(StakerKey(staker))
	if bz == nil {
		return types.StakerPosition{}, false
	}

	var position types.StakerPosition
	if err := k.cdc.Unmarshal(bz, &position); err != nil {
		panic(fmt.Errorf("staker position unmarshal: %w", err))
	}
	return position, true
}

func (k Keeper) setStakerPosition(ctx context.Context, position types.StakerPosition) {
	staker, err := sdk.AccAddressFromBech32(position.Staker)
	if err != nil {
		panic(fmt.Errorf("staker address: %w", err))
	}
	store := k.getStore(ctx)
	store.Set(StakerKey(staker), k.mustMarshal(&position))
}

func (k Keeper) deleteStakerPosition(ctx context.Context, staker sdk.AccAddress) {
	store := k.getStore(ctx)
	store.Delete(StakerKey(staker))
}

// GetTotalStaked returns the pool-wide staked amount
func (k Keeper) GetTotalStaked(ctx context.Context) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(TotalStakedKey)
	if bz == nil {
		return math.ZeroInt()
	}

	var total math.Int
	if err := total.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("total staked unmarshal: %w", err))
	}
	return total
}

func (k Keeper) setTotalStaked(ctx context.Context, total math.Int) {
	bz, err := total.Marshal()
	if err != nil {
		panic(fmt.Errorf("total staked marshal: %w", err))
	}
	store := k.getStore(ctx)
	store.Set(TotalStakedKey, bz)
}

// GetRewardToken retrieves the accumulator state for a reward denom
func (k Keeper) GetRewardToken(ctx context.Context, denom string) (types.RewardTokenState, bool) {
	store := k.getStore(ctx)
	bz := store.Get(RewardTokenKey(denom))
	if bz == nil {
		return types.RewardTokenState{}, false
	}

	var token types.RewardTokenState
	if err := k.cdc.Unmarshal(bz, &token); err != nil {
		panic(fmt.Errorf("reward token unmarshal: %w", err))
	}
	return token, true
}

func (k Keeper) setRewardToken(ctx context.Context, token types.RewardTokenState) {
	store := k.getStore(ctx)
	store.Set(RewardTokenKey(token.Denom), k.mustMarshal(&token))
}

func (k Keeper) iterateRewardTokens(ctx context.Context, cb func(token types.RewardTokenState) (stop bool)) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, RewardTokenKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var token types.RewardTokenState
		if err := k.cdc.Unmarshal(iterator.Value(), &token); err != nil {
			panic(fmt.Errorf("reward token unmarshal: %w", err))
		}
		if cb(token) {
			break
		}
	}
}

func (k Keeper) getRewardDebt(ctx context.Context, staker sdk.AccAddress, denom string) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(RewardDebtKey(staker, denom))
	if bz == nil {
		return math.ZeroInt()
	}

	var debt math.Int
	if err := debt.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("reward debt unmarshal: %w", err))
	}
	return debt
}

func (k Keeper) setRewardDebt(ctx context.Context, staker sdk.AccAddress, denom string, debt math.Int) {
	bz, err := debt.Marshal()
	if err != nil {
		panic(fmt.Errorf("reward debt marshal: %w", err))
	}
	store := k.getStore(ctx)
	store.Set(RewardDebtKey(staker, denom), bz)
}

func (k Keeper) clearRewardDebts(ctx context.Context, staker sdk.AccAddress) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, RewardDebtPrefixForStaker(staker))
	defer iterator.Close()

	var keys [][]byte
	for ; iterator.Valid(); iterator.Next() {
		keys = append(keys, append([]byte(nil), iterator.Key()...))
	}
	for _, key := range keys {
		store.Delete(key)
	}
}

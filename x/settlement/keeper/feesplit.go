package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// ComputePaymentBreakdown splits a gross amount into host, protocol and
// staker shares by the configured basis-point rates. Both cuts floor-divide,
// so the host absorbs the rounding remainder.
func ComputePaymentBreakdown(amount math.Int, params types.Params) types.PaymentBreakdown {
	protocol := amount.MulRaw(int64(params.ProtocolFeeBps)).QuoRaw(types.BpsDenominator)
	staker := amount.MulRaw(int64(params.StakerFeeBps)).QuoRaw(types.BpsDenominator)
	host := amount.Sub(protocol).Sub(staker)
	return types.PaymentBreakdown{
		HostAmount:     host,
		ProtocolAmount: protocol,
		StakerAmount:   staker,
	}
}

// SplitPayment settles a gross payment three ways: the host's share pays out
// directly, the protocol share goes to the fee collector, and the staker
// share feeds the reward pool. With an empty staking pool the staker share
// falls back to the fee collector so no funds strand in the module account.
// All transfers happen within one operation; any failure aborts the whole
// split.
func (k Keeper) SplitPayment(ctx context.Context, jobID uint64, amount math.Int, host sdk.AccAddress, denom string) (types.PaymentBreakdown, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount.IsNil() || !amount.IsPositive() {
		return types.PaymentBreakdown{}, types.ErrInvalidAmount.Wrap("split amount must be positive")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.PaymentBreakdown{}, err
	}

	breakdown := ComputePaymentBreakdown(amount, params)

	if err := k.payOut(ctx, host, breakdown.HostAmount, denom, "split_payment"); err != nil {
		return types.PaymentBreakdown{}, err
	}

	protocolCut := breakdown.ProtocolAmount
	stakerCut := breakdown.StakerAmount
	if stakerCut.IsPositive() && !k.GetTotalStaked(ctx).IsPositive() {
		protocolCut = protocolCut.Add(stakerCut)
		stakerCut = math.ZeroInt()
	}

	if err := k.payTreasury(ctx, protocolCut, denom, "split_payment"); err != nil {
		return types.PaymentBreakdown{}, err
	}

	if stakerCut.IsPositive() {
		// The funds are already in the module account; only the accumulator
		// moves.
		if err := k.creditRewardPool(ctx, denom, stakerCut); err != nil {
			return types.PaymentBreakdown{}, err
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePaymentSplit,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, host.String()),
			sdk.NewAttribute(types.AttributeKeyHostAmount, breakdown.HostAmount.String()),
			sdk.NewAttribute(types.AttributeKeyProtocolAmount, breakdown.ProtocolAmount.String()),
			sdk.NewAttribute(types.AttributeKeyStakerAmount, breakdown.StakerAmount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
		),
	)

	return breakdown, nil
}

// BatchSplitPayments applies SplitPayment per element over equal-length
// parallel arrays. Validation runs over the whole batch before any element
// applies; any element's transfer failure aborts the entire batch.
func (k Keeper) BatchSplitPayments(ctx context.Context, jobIDs []uint64, amounts []math.Int, hosts []sdk.AccAddress, denom string) ([]types.PaymentBreakdown, error) {
	if len(jobIDs) != len(amounts) || len(jobIDs) != len(hosts) {
		return nil, types.ErrBatchLengthMismatch.Wrapf("jobs %d, amounts %d, hosts %d", len(jobIDs), len(amounts), len(hosts))
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if uint64(len(jobIDs)) > params.MaxBatchSplit {
		return nil, types.ErrBatchTooLarge.Wrapf("%d payments exceeds batch limit %d", len(jobIDs), params.MaxBatchSplit)
	}

	for i, amount := range amounts {
		if amount.IsNil() || !amount.IsPositive() {
			return nil, types.ErrInvalidAmount.Wrapf("amount at index %d must be positive", i)
		}
		if hosts[i].Empty() {
			return nil, types.ErrInvalidAddress.Wrapf("host at index %d is empty", i)
		}
	}

	breakdowns := make([]types.PaymentBreakdown, 0, len(jobIDs))
	for i := range jobIDs {
		breakdown, err := k.SplitPayment(ctx, jobIDs[i], amounts[i], hosts[i], denom)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns, nil
}

// GetPaymentBreakdown previews the three-way split for an amount under the
// current parameters.
func (k Keeper) GetPaymentBreakdown(ctx context.Context, amount math.Int) (types.PaymentBreakdown, error) {
	if amount.IsNil() || amount.IsNegative() {
		return types.PaymentBreakdown{}, types.ErrInvalidAmount.Wrap("amount must not be negative")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.PaymentBreakdown{}, err
	}
	return ComputePaymentBreakdown(amount, params), nil
}

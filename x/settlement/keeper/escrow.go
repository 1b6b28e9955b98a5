package keeper

import (
	"context"
	"encoding/binary"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// CreateEscrow locks the payment for a job into the module account and opens
// a new escrow in Active status. The host is bound later, when the job is
// claimed.
func (k Keeper) CreateEscrow(ctx context.Context, renter sdk.AccAddress, jobID uint64, amount math.Int, denom string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount.IsNil() || !amount.IsPositive() {
		return 0, types.ErrInvalidAmount.Wrap("escrow amount must be positive")
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, renter, types.ModuleName, coins); err != nil {
		return 0, types.ErrInsufficientFunds.Wrapf("failed to lock escrow funds: %v", err)
	}

	escrowID := k.nextID(ctx, NextEscrowIDKey)
	escrow := types.Escrow{
		Id:        escrowID,
		JobId:     jobID,
		Renter:    renter.String(),
		Amount:    amount,
		Denom:     denom,
		Status:    types.ESCROW_STATUS_ACTIVE,
		CreatedAt: sdkCtx.BlockTime(),
	}
	k.setEscrow(ctx, escrow)

	k.metrics.EscrowLocked.WithLabelValues(denom).Add(floatAmount(amount))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowCreated,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyRenter, renter.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
		),
	)

	return escrowID, nil
}

// ReleaseEscrow pays the host from an active escrow, minus the flat release
// fee which is credited to the fee collector. Either escrow party may call,
// but not while the job's proof has an open challenge.
func (k Keeper) ReleaseEscrow(ctx context.Context, escrowID uint64, caller sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		if escrow.Status.IsTerminal() {
			return types.ErrEscrowTerminal.Wrapf("escrow %d is %s", escrowID, escrow.Status)
		}
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}
	if err := k.requireEscrowParty(escrow, caller); err != nil {
		return err
	}
	if escrow.Host == "" {
		return types.ErrWrongJobState.Wrapf("escrow %d has no bound host", escrowID)
	}
	if _, found := k.getPendingChallengeID(ctx, escrow.JobId); found {
		return types.ErrChallengeActive.Wrapf("job %d has an open challenge", escrow.JobId)
	}

	host, err := sdk.AccAddressFromBech32(escrow.Host)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("escrow host: %v", err)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	fee, payout := SplitReleaseFee(escrow.Amount, params.FeeBps)

	// Effects before external transfers.
	now := sdkCtx.BlockTime()
	escrow.Status = types.ESCROW_STATUS_RELEASED
	escrow.ClosedAt = &now
	k.setEscrow(ctx, escrow)

	if err := k.payOut(ctx, host, payout, escrow.Denom, "release_escrow"); err != nil {
		return err
	}
	if err := k.payTreasury(ctx, fee, escrow.Denom, "release_escrow"); err != nil {
		return err
	}

	k.metrics.EscrowReleased.WithLabelValues(escrow.Denom).Add(floatAmount(payout))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowReleased,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyHost, escrow.Host),
			sdk.NewAttribute(types.AttributeKeyAmount, payout.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
		),
	)

	return nil
}

// DisputeEscrow moves an active escrow into Disputed. Either party may call.
func (k Keeper) DisputeEscrow(ctx context.Context, escrowID uint64, caller sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}
	if err := k.requireEscrowParty(escrow, caller); err != nil {
		return err
	}

	escrow.Status = types.ESCROW_STATUS_DISPUTED
	k.setEscrow(ctx, escrow)

	k.metrics.EscrowDisputes.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowDisputed,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyActor, caller.String()),
		),
	)

	return nil
}

// ResolveDispute settles a disputed escrow in favor of one of its parties.
// A host win pays out minus the release fee; a renter win refunds in full.
// Authority gating happens in the msg server.
func (k Keeper) ResolveDispute(ctx context.Context, escrowID uint64, winner sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_DISPUTED {
		return types.ErrEscrowNotDisputed.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}

	winnerStr := winner.String()
	if winnerStr != escrow.Renter && winnerStr != escrow.Host {
		return sdkerrors.Wrapf(types.ErrInvalidAddress, "winner %s is not a party to escrow %d", winnerStr, escrowID)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	now := sdkCtx.BlockTime()
	escrow.Status = types.ESCROW_STATUS_RESOLVED
	escrow.ClosedAt = &now
	k.setEscrow(ctx, escrow)

	if winnerStr == escrow.Host {
		fee, payout := SplitReleaseFee(escrow.Amount, params.FeeBps)
		if err := k.payOut(ctx, winner, payout, escrow.Denom, "resolve_dispute"); err != nil {
			return err
		}
		if err := k.payTreasury(ctx, fee, escrow.Denom, "resolve_dispute"); err != nil {
			return err
		}
	} else {
		if err := k.payOut(ctx, winner, escrow.Amount, escrow.Denom, "resolve_dispute"); err != nil {
			return err
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowResolved,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyWinner, winnerStr),
			sdk.NewAttribute(types.AttributeKeyAmount, escrow.Amount.String()),
		),
	)

	return nil
}

// RequestRefund is the host's half of the two-phase refund: it flags the
// escrow so the renter can confirm. Requires an active escrow with a bound
// host.
func (k Keeper) RequestRefund(ctx context.Context, escrowID uint64, caller sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}
	if escrow.Host == "" || caller.String() != escrow.Host {
		return types.ErrNotAssignedHost.Wrapf("only the escrow host may request a refund")
	}

	escrow.RefundRequested = true
	k.setEscrow(ctx, escrow)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefundRequested,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyHost, escrow.Host),
		),
	)

	return nil
}

// ConfirmRefund is the renter's half of the two-phase refund: with the host's
// request on record, the full amount returns to the renter and the escrow
// terminates as Refunded.
func (k Keeper) ConfirmRefund(ctx context.Context, escrowID uint64, caller sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}
	if caller.String() != escrow.Renter {
		return types.ErrNotRenter.Wrapf("only the escrow renter may confirm a refund")
	}
	if !escrow.RefundRequested {
		return types.ErrRefundNotRequested.Wrapf("escrow %d has no pending refund request", escrowID)
	}

	now := sdkCtx.BlockTime()
	escrow.Status = types.ESCROW_STATUS_REFUNDED
	escrow.ClosedAt = &now
	k.setEscrow(ctx, escrow)

	if err := k.payOut(ctx, caller, escrow.Amount, escrow.Denom, "confirm_refund"); err != nil {
		return err
	}

	k.metrics.EscrowRefunded.WithLabelValues(escrow.Denom).Add(floatAmount(escrow.Amount))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowRefunded,
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyRenter, escrow.Renter),
			sdk.NewAttribute(types.AttributeKeyAmount, escrow.Amount.String()),
		),
	)

	return nil
}

// GetEscrow retrieves an escrow by ID
func (k Keeper) GetEscrow(ctx context.Context, escrowID uint64) (types.Escrow, error) {
	store := k.getStore(ctx)
	bz := store.Get(EscrowKey(escrowID))
	if bz == nil {
		return types.Escrow{}, types.ErrEscrowNotFound.Wrapf("escrow %d", escrowID)
	}

	var escrow types.Escrow
	if err := k.cdc.Unmarshal(bz, &escrow); err != nil {
		return types.Escrow{}, fmt.Errorf("GetEscrow: unmarshal: %w", err)
	}
	return escrow, nil
}

func (k Keeper) setEscrow(ctx context.Context, escrow types.Escrow) {
	store := k.getStore(ctx)
	store.Set(EscrowKey(escrow.Id), k.mustMarshal(&escrow))
}

// bindEscrowHost attaches the claiming host to the job's escrow.
func (k Keeper) bindEscrowHost(ctx context.Context, escrowID uint64, host sdk.AccAddress) error {
	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}

	escrow.Host = host.String()
	k.setEscrow(ctx, escrow)
	return nil
}

// clearEscrowHost detaches the host when a claimed job is abandoned. Only an
// active escrow may be rewritten; terminal and disputed records are frozen.
func (k Keeper) clearEscrowHost(ctx context.Context, escrowID uint64) error {
	escrow, err := k.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrowID, escrow.Status)
	}

	escrow.Host = ""
	escrow.RefundRequested = false
	k.setEscrow(ctx, escrow)
	return nil
}

func (k Keeper) requireEscrowParty(escrow types.Escrow, caller sdk.AccAddress) error {
	callerStr := caller.String()
	if callerStr != escrow.Renter && callerStr != escrow.Host {
		return types.ErrUnauthorized.Wrapf("%s is not a party to escrow %d", callerStr, escrow.Id)
	}
	return nil
}

// payOut sends coins from the module account to a recipient. State effects
// must already be committed when this is called; a failure here aborts the
// whole operation after recording the incident.
func (k Keeper) payOut(ctx context.Context, to sdk.AccAddress, amount math.Int, denom, operation string) error {
	if amount.IsZero() {
		return nil
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		k.recordTransferFailure(ctx, operation, to.String(), amount, denom, err)
		return types.ErrTransferFailed.Wrapf("%s: %v", operation, err)
	}
	return nil
}

// payTreasury credits the fee collector with the protocol's cut.
func (k Keeper) payTreasury(ctx context.Context, amount math.Int, denom, operation string) error {
	if amount.IsZero() {
		return nil
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, authtypes.FeeCollectorName, coins); err != nil {
		k.recordTransferFailure(ctx, operation, authtypes.FeeCollectorName, amount, denom, err)
		return types.ErrTransferFailed.Wrapf("%s: %v", operation, err)
	}
	return nil
}

// recordTransferFailure records an outbound transfer failure after state
// effects were applied. The surrounding operation still returns an error so
// the whole transaction reverts; the metric survives for alerting.
func (k Keeper) recordTransferFailure(ctx context.Context, operation, recipient string, amount math.Int, denom string, cause error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	k.metrics.TransferFailures.WithLabelValues(operation).Inc()
	sdkCtx.Logger().Error("settlement transfer failed after state effects",
		"operation", operation,
		"recipient", recipient,
		"amount", amount.String(),
		"denom", denom,
		"error", cause,
	)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSettlementFailure,
			sdk.NewAttribute(types.AttributeKeyReason, cause.Error()),
			sdk.NewAttribute(types.AttributeKeyActor, recipient),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
		),
	)
}

// SplitReleaseFee computes the flat release fee and host payout. The fee
// floor-divides, so any remainder stays with the host.
func SplitReleaseFee(amount math.Int, feeBps uint64) (fee, payout math.Int) {
	fee = amount.MulRaw(int64(feeBps)).QuoRaw(types.BpsDenominator)
	payout = amount.Sub(fee)
	return fee, payout
}

// nextID reads, increments and stores a monotonic ID counter.
func (k Keeper) nextID(ctx context.Context, counterKey []byte) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(counterKey)

	var next uint64 = 1
	if bz != nil {
		next = GetIDFromBytes(bz)
	}

	nextBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nextBz, next+1)
	store.Set(counterKey, nextBz)

	return next
}

func floatAmount(amount math.Int) float64 {
	f, err := amount.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}

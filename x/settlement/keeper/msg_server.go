package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return msgServer{Keeper: keeper}
}

// requireAuthority rejects callers other than the module authority.
func (ms msgServer) requireAuthority(caller string) error {
	if caller != ms.GetAuthority() {
		return types.ErrUnauthorized.Wrapf("expected authority %s, got %s", ms.GetAuthority(), caller)
	}
	return nil
}

// CreateJob posts a new job and locks the payment in escrow.
func (ms msgServer) CreateJob(goCtx context.Context, msg *types.MsgCreateJob) (*types.MsgCreateJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	renter, err := sdk.AccAddressFromBech32(msg.Renter)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid renter address: %v", err)
	}

	jobID, err := ms.Keeper.CreateJob(ctx, renter, msg.ModelId, msg.InputRef, msg.MaxPrice, msg.Payment, msg.PaymentDenom, msg.DeadlineSeconds)
	if err != nil {
		return nil, err
	}

	job, err := ms.Keeper.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateJobResponse{JobId: jobID, EscrowId: job.EscrowId}, nil
}

// ClaimJob assigns a posted job to the calling host.
func (ms msgServer) ClaimJob(goCtx context.Context, msg *types.MsgClaimJob) (*types.MsgClaimJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}

	if err := ms.Keeper.ClaimJob(ctx, msg.JobId, host); err != nil {
		return nil, err
	}

	return &types.MsgClaimJobResponse{}, nil
}

// SubmitProof records the execution proof for a claimed job.
func (ms msgServer) SubmitProof(goCtx context.Context, msg *types.MsgSubmitProof) (*types.MsgSubmitProofResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	prover, err := sdk.AccAddressFromBech32(msg.Prover)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid prover address: %v", err)
	}

	if err := ms.Keeper.SubmitProof(ctx, msg.JobId, prover, msg.Payload); err != nil {
		return nil, err
	}

	proof, err := ms.Keeper.GetProof(ctx, msg.JobId)
	if err != nil {
		return nil, err
	}

	return &types.MsgSubmitProofResponse{ProofHash: proof.ProofHash}, nil
}

// VerifyProof runs structural verification on a submitted proof.
func (ms msgServer) VerifyProof(goCtx context.Context, msg *types.MsgVerifyProof) (*types.MsgVerifyProofResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	verified, err := ms.Keeper.VerifyProof(ctx, msg.JobId)
	if err != nil {
		return nil, err
	}

	return &types.MsgVerifyProofResponse{Verified: verified}, nil
}

// BatchVerifyProofs verifies a bounded list of submitted proofs.
func (ms msgServer) BatchVerifyProofs(goCtx context.Context, msg *types.MsgBatchVerifyProofs) (*types.MsgBatchVerifyProofsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	results, err := ms.Keeper.BatchVerifyProofs(ctx, msg.JobIds)
	if err != nil {
		return nil, err
	}

	return &types.MsgBatchVerifyProofsResponse{Results: results}, nil
}

// CompleteJob finishes a claimed job and settles the escrow to the host.
func (ms msgServer) CompleteJob(goCtx context.Context, msg *types.MsgCompleteJob) (*types.MsgCompleteJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}

	if err := ms.Keeper.CompleteJob(ctx, msg.JobId, host, msg.ResultRef); err != nil {
		return nil, err
	}

	return &types.MsgCompleteJobResponse{}, nil
}

// FailJob abandons a claimed job and reopens it for other hosts.
func (ms msgServer) FailJob(goCtx context.Context, msg *types.MsgFailJob) (*types.MsgFailJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	actor, err := sdk.AccAddressFromBech32(msg.Actor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid actor address: %v", err)
	}

	if err := ms.Keeper.FailJob(ctx, msg.JobId, actor); err != nil {
		return nil, err
	}

	return &types.MsgFailJobResponse{}, nil
}

// ChallengeProof opens a bonded challenge against a verified proof.
func (ms msgServer) ChallengeProof(goCtx context.Context, msg *types.MsgChallengeProof) (*types.MsgChallengeProofResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	challenger, err := sdk.AccAddressFromBech32(msg.Challenger)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid challenger address: %v", err)
	}

	challengeID, err := ms.Keeper.ChallengeProof(ctx, msg.JobId, challenger, msg.EvidenceHash, msg.Stake)
	if err != nil {
		return nil, err
	}

	return &types.MsgChallengeProofResponse{ChallengeId: challengeID}, nil
}

// ResolveChallenge settles a pending challenge for or against the prover.
func (ms msgServer) ResolveChallenge(goCtx context.Context, msg *types.MsgResolveChallenge) (*types.MsgResolveChallengeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := ms.Keeper.ResolveChallenge(ctx, msg.ChallengeId, msg.Successful); err != nil {
		return nil, err
	}

	return &types.MsgResolveChallengeResponse{}, nil
}

// ExpireChallenge closes a challenge whose deadline has passed. Open to anyone.
func (ms msgServer) ExpireChallenge(goCtx context.Context, msg *types.MsgExpireChallenge) (*types.MsgExpireChallengeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if err := ms.Keeper.ExpireChallenge(ctx, msg.ChallengeId); err != nil {
		return nil, err
	}

	return &types.MsgExpireChallengeResponse{}, nil
}

// ReleaseEscrow pays the host out of an active escrow.
func (ms msgServer) ReleaseEscrow(goCtx context.Context, msg *types.MsgReleaseEscrow) (*types.MsgReleaseEscrowResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid caller address: %v", err)
	}

	if err := ms.Keeper.ReleaseEscrow(ctx, msg.EscrowId, caller); err != nil {
		return nil, err
	}

	return &types.MsgReleaseEscrowResponse{}, nil
}

// DisputeEscrow freezes an active escrow pending arbitration.
func (ms msgServer) DisputeEscrow(goCtx context.Context, msg *types.MsgDisputeEscrow) (*types.MsgDisputeEscrowResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid caller address: %v", err)
	}

	if err := ms.Keeper.DisputeEscrow(ctx, msg.EscrowId, caller); err != nil {
		return nil, err
	}

	return &types.MsgDisputeEscrowResponse{}, nil
}

// ResolveDispute awards a disputed escrow to one of its parties.
func (ms msgServer) ResolveDispute(goCtx context.Context, msg *types.MsgResolveDispute) (*types.MsgResolveDisputeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	winner, err := sdk.AccAddressFromBech32(msg.Winner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid winner address: %v", err)
	}

	if err := ms.Keeper.ResolveDispute(ctx, msg.EscrowId, winner); err != nil {
		return nil, err
	}

	return &types.MsgResolveDisputeResponse{}, nil
}

// RequestRefund starts the two-phase refund of an escrow, host side.
func (ms msgServer) RequestRefund(goCtx context.Context, msg *types.MsgRequestRefund) (*types.MsgRequestRefundResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}

	if err := ms.Keeper.RequestRefund(ctx, msg.EscrowId, host); err != nil {
		return nil, err
	}

	return &types.MsgRequestRefundResponse{}, nil
}

// ConfirmRefund completes the two-phase refund, renter side.
func (ms msgServer) ConfirmRefund(goCtx context.Context, msg *types.MsgConfirmRefund) (*types.MsgConfirmRefundResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	renter, err := sdk.AccAddressFromBech32(msg.Renter)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid renter address: %v", err)
	}

	if err := ms.Keeper.ConfirmRefund(ctx, msg.EscrowId, renter); err != nil {
		return nil, err
	}

	return &types.MsgConfirmRefundResponse{}, nil
}

// RateHost records the renter's rating of a completed job.
func (ms msgServer) RateHost(goCtx context.Context, msg *types.MsgRateHost) (*types.MsgRateHostResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	renter, err := sdk.AccAddressFromBech32(msg.Renter)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid renter address: %v", err)
	}

	if err := ms.Keeper.RateHost(ctx, renter, msg.JobId, msg.Rating, msg.Feedback); err != nil {
		return nil, err
	}

	return &types.MsgRateHostResponse{}, nil
}

// SlashReputation cuts a host's score by a percentage. Authority gated.
func (ms msgServer) SlashReputation(goCtx context.Context, msg *types.MsgSlashReputation) (*types.MsgSlashReputationResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}

	if err := ms.Keeper.SlashReputation(ctx, host, msg.Percentage); err != nil {
		return nil, err
	}

	return &types.MsgSlashReputationResponse{}, nil
}

// UpdateStake sets the caller's staking position to an absolute amount.
func (ms msgServer) UpdateStake(goCtx context.Context, msg *types.MsgUpdateStake) (*types.MsgUpdateStakeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid staker address: %v", err)
	}

	if err := ms.Keeper.UpdateStake(ctx, staker, msg.NewAmount); err != nil {
		return nil, err
	}

	return &types.MsgUpdateStakeResponse{}, nil
}

// DistributeRewards funds the staking pool with a reward inflow.
func (ms msgServer) DistributeRewards(goCtx context.Context, msg *types.MsgDistributeRewards) (*types.MsgDistributeRewardsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	funder, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid authority address: %v", err)
	}

	if err := ms.Keeper.DistributeRewards(ctx, funder, msg.Denom, msg.Amount); err != nil {
		return nil, err
	}

	return &types.MsgDistributeRewardsResponse{}, nil
}

// ClaimReward pays out the caller's pending reward in one denom.
func (ms msgServer) ClaimReward(goCtx context.Context, msg *types.MsgClaimReward) (*types.MsgClaimRewardResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid staker address: %v", err)
	}

	amount, err := ms.Keeper.ClaimReward(ctx, staker, msg.Denom)
	if err != nil {
		return nil, err
	}

	return &types.MsgClaimRewardResponse{Amount: amount}, nil
}

// ClaimAllRewards pays out the caller's pending rewards in every denom.
func (ms msgServer) ClaimAllRewards(goCtx context.Context, msg *types.MsgClaimAllRewards) (*types.MsgClaimAllRewardsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid staker address: %v", err)
	}

	claimed, err := ms.Keeper.ClaimAllRewards(ctx, staker)
	if err != nil {
		return nil, err
	}

	return &types.MsgClaimAllRewardsResponse{Claimed: claimed}, nil
}

// CompoundRewards folds the caller's staking-denom rewards into their stake.
func (ms msgServer) CompoundRewards(goCtx context.Context, msg *types.MsgCompoundRewards) (*types.MsgCompoundRewardsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid staker address: %v", err)
	}

	compounded, err := ms.Keeper.CompoundRewards(ctx, staker)
	if err != nil {
		return nil, err
	}

	return &types.MsgCompoundRewardsResponse{Compounded: compounded}, nil
}

// EmergencyWithdraw returns the caller's stake, forfeiting pending rewards.
func (ms msgServer) EmergencyWithdraw(goCtx context.Context, msg *types.MsgEmergencyWithdraw) (*types.MsgEmergencyWithdrawResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	staker, err := sdk.AccAddressFromBech32(msg.Staker)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid staker address: %v", err)
	}

	returned, err := ms.Keeper.EmergencyWithdraw(ctx, staker)
	if err != nil {
		return nil, err
	}

	return &types.MsgEmergencyWithdrawResponse{Returned: returned}, nil
}

// UpdateParams replaces the module parameters. Authority gated.
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := ms.Keeper.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

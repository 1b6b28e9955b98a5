package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hashgrid/grid/x/settlement/types"
)

var _ types.QueryServer = queryServer{}

const maxTopHostsLimit = 100

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return queryServer{Keeper: keeper}
}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	params, err := qs.Keeper.GetParams(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryParamsResponse{Params: params}, nil
}

// Job returns a single job by id
func (qs queryServer) Job(goCtx context.Context, req *types.QueryJobRequest) (*types.QueryJobResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	job, err := qs.Keeper.GetJob(ctx, req.JobId)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryJobResponse{Job: job}, nil
}

// JobsByRenter returns every job posted by a renter
func (qs queryServer) JobsByRenter(goCtx context.Context, req *types.QueryJobsByRenterRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	renter, err := sdk.AccAddressFromBech32(req.Renter)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid renter address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	jobs, err := qs.Keeper.GetJobsByRenter(ctx, renter)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryJobsResponse{Jobs: jobs}, nil
}

// JobsByHost returns every job currently assigned to a host
func (qs queryServer) JobsByHost(goCtx context.Context, req *types.QueryJobsByHostRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	host, err := sdk.AccAddressFromBech32(req.Host)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid host address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	jobs, err := qs.Keeper.GetJobsByHost(ctx, host)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryJobsResponse{Jobs: jobs}, nil
}

// JobsByStatus returns every job in a lifecycle state
func (qs queryServer) JobsByStatus(goCtx context.Context, req *types.QueryJobsByStatusRequest) (*types.QueryJobsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if req.Status == types.JOB_STATUS_UNSPECIFIED {
		return nil, status.Error(codes.InvalidArgument, "status must be specified")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	jobs, err := qs.Keeper.GetJobsByStatus(ctx, req.Status)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryJobsResponse{Jobs: jobs}, nil
}

// Escrow returns a single escrow by id
func (qs queryServer) Escrow(goCtx context.Context, req *types.QueryEscrowRequest) (*types.QueryEscrowResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	escrow, err := qs.Keeper.GetEscrow(ctx, req.EscrowId)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryEscrowResponse{Escrow: escrow}, nil
}

// Proof returns the proof record for a job
func (qs queryServer) Proof(goCtx context.Context, req *types.QueryProofRequest) (*types.QueryProofResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	proof, err := qs.Keeper.GetProof(ctx, req.JobId)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryProofResponse{Proof: proof}, nil
}

// Challenge returns a single challenge by id
func (qs queryServer) Challenge(goCtx context.Context, req *types.QueryChallengeRequest) (*types.QueryChallengeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	challenge, err := qs.Keeper.GetChallenge(ctx, req.ChallengeId)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryChallengeResponse{Challenge: challenge}, nil
}

// Reputation returns a host's reputation with decay applied at read time
func (qs queryServer) Reputation(goCtx context.Context, req *types.QueryReputationRequest) (*types.QueryReputationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	host, err := sdk.AccAddressFromBech32(req.Host)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid host address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	reputation, err := qs.Keeper.GetHostReputation(ctx, host)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryReputationResponse{Reputation: reputation}, nil
}

// AverageRating returns a host's mean rating
func (qs queryServer) AverageRating(goCtx context.Context, req *types.QueryAverageRatingRequest) (*types.QueryAverageRatingResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	host, err := sdk.AccAddressFromBech32(req.Host)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid host address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	avg, err := qs.Keeper.GetAverageRating(ctx, host)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryAverageRatingResponse{AverageRating: avg}, nil
}

// TopHosts returns the highest-scored hosts
func (qs queryServer) TopHosts(goCtx context.Context, req *types.QueryTopHostsRequest) (*types.QueryTopHostsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	limit := req.Limit
	if limit == 0 || limit > maxTopHostsLimit {
		limit = maxTopHostsLimit
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	hosts, err := qs.Keeper.GetTopHosts(ctx, int(limit))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryTopHostsResponse{Hosts: hosts}, nil
}

// PaymentBreakdown previews the fee split for a payment amount
func (qs queryServer) PaymentBreakdown(goCtx context.Context, req *types.QueryPaymentBreakdownRequest) (*types.QueryPaymentBreakdownResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	if req.Amount.IsNil() || !req.Amount.IsPositive() {
		return nil, status.Error(codes.InvalidArgument, "amount must be positive")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	breakdown, err := qs.Keeper.GetPaymentBreakdown(ctx, req.Amount)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryPaymentBreakdownResponse{Breakdown: breakdown}, nil
}

// PendingReward returns a staker's unclaimed entitlement in one denom
func (qs queryServer) PendingReward(goCtx context.Context, req *types.QueryPendingRewardRequest) (*types.QueryPendingRewardResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	staker, err := sdk.AccAddressFromBech32(req.Staker)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid staker address: %v", err)
	}
	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid denom: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	pending := qs.Keeper.PendingReward(ctx, staker, req.Denom)

	return &types.QueryPendingRewardResponse{Pending: pending}, nil
}

// StakerPosition returns a staker's position
func (qs queryServer) StakerPosition(goCtx context.Context, req *types.QueryStakerPositionRequest) (*types.QueryStakerPositionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	staker, err := sdk.AccAddressFromBech32(req.Staker)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid staker address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	position, found := qs.Keeper.GetStakerPosition(ctx, staker)
	if !found {
		return nil, status.Errorf(codes.NotFound, "%s has no stake", req.Staker)
	}

	return &types.QueryStakerPositionResponse{Position: position}, nil
}

// RewardToken returns the accumulator state for a reward denom
func (qs queryServer) RewardToken(goCtx context.Context, req *types.QueryRewardTokenRequest) (*types.QueryRewardTokenResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid denom: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	token, found := qs.Keeper.GetRewardToken(ctx, req.Denom)
	if !found {
		return nil, status.Errorf(codes.NotFound, "no rewards distributed in %s", req.Denom)
	}

	return &types.QueryRewardTokenResponse{Token: token}, nil
}

// TotalStaked returns the pool-wide staked amount
func (qs queryServer) TotalStaked(goCtx context.Context, req *types.QueryTotalStakedRequest) (*types.QueryTotalStakedResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	return &types.QueryTotalStakedResponse{TotalStaked: qs.Keeper.GetTotalStaked(ctx)}, nil
}

// CanCompleteJob reports whether a job passes the completion gate
func (qs queryServer) CanCompleteJob(goCtx context.Context, req *types.QueryCanCompleteJobRequest) (*types.QueryCanCompleteJobResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	if _, err := qs.Keeper.GetJob(ctx, req.JobId); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	return &types.QueryCanCompleteJobResponse{CanComplete: qs.Keeper.CanCompleteJob(ctx, req.JobId)}, nil
}

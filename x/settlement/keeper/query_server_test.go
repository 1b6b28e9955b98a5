package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, code, st.Code())
}

func TestQueryParams(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)

	resp, err := qs.Params(f.Ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), resp.Params)

	_, err = qs.Params(f.Ctx, nil)
	requireGRPCCode(t, err, codes.InvalidArgument)
}

func TestQueryJob(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)
	jobID := postJob(t, f, 100)

	resp, err := qs.Job(f.Ctx, &types.QueryJobRequest{JobId: jobID})
	require.NoError(t, err)
	require.Equal(t, jobID, resp.Job.Id)
	require.Equal(t, types.JOB_STATUS_POSTED, resp.Job.Status)

	_, err = qs.Job(f.Ctx, &types.QueryJobRequest{JobId: 99})
	requireGRPCCode(t, err, codes.NotFound)
}

func TestQueryJobsByIndex(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)

	first := postJob(t, f, 100)
	second := postJob(t, f, 200)
	claimJob(t, f, first)

	byRenter, err := qs.JobsByRenter(f.Ctx, &types.QueryJobsByRenterRequest{Renter: renterAddr.String()})
	require.NoError(t, err)
	require.Len(t, byRenter.Jobs, 2)

	byHost, err := qs.JobsByHost(f.Ctx, &types.QueryJobsByHostRequest{Host: hostAddr.String()})
	require.NoError(t, err)
	require.Len(t, byHost.Jobs, 1)
	require.Equal(t, first, byHost.Jobs[0].Id)

	posted, err := qs.JobsByStatus(f.Ctx, &types.QueryJobsByStatusRequest{Status: types.JOB_STATUS_POSTED})
	require.NoError(t, err)
	require.Len(t, posted.Jobs, 1)
	require.Equal(t, second, posted.Jobs[0].Id)

	_, err = qs.JobsByRenter(f.Ctx, &types.QueryJobsByRenterRequest{Renter: "not-bech32"})
	requireGRPCCode(t, err, codes.InvalidArgument)
}

func TestQueryEscrowAndProof(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)

	jobID := postJob(t, f, 100)
	claimJob(t, f, jobID)
	proveJob(t, f, jobID)

	escrow, err := qs.Escrow(f.Ctx, &types.QueryEscrowRequest{EscrowId: escrowIDForJob(t, f, jobID)})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100), escrow.Escrow.Amount)

	proof, err := qs.Proof(f.Ctx, &types.QueryProofRequest{JobId: jobID})
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_VERIFIED, proof.Proof.Status)

	can, err := qs.CanCompleteJob(f.Ctx, &types.QueryCanCompleteJobRequest{JobId: jobID})
	require.NoError(t, err)
	require.True(t, can.CanComplete)

	_, err = qs.Proof(f.Ctx, &types.QueryProofRequest{JobId: 99})
	requireGRPCCode(t, err, codes.NotFound)
	_, err = qs.CanCompleteJob(f.Ctx, &types.QueryCanCompleteJobRequest{JobId: 99})
	requireGRPCCode(t, err, codes.NotFound)
}

func TestQueryReputationSurface(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)

	jobID := completeJob(t, f, 100)
	require.NoError(t, f.Keeper.RateHost(f.Ctx, renterAddr, jobID, 4, "good"))

	rep, err := qs.Reputation(f.Ctx, &types.QueryReputationRequest{Host: hostAddr.String()})
	require.NoError(t, err)
	require.Equal(t, uint64(112), rep.Reputation.Score)

	avg, err := qs.AverageRating(f.Ctx, &types.QueryAverageRatingRequest{Host: hostAddr.String()})
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(4), avg.AverageRating)

	top, err := qs.TopHosts(f.Ctx, &types.QueryTopHostsRequest{Limit: 5})
	require.NoError(t, err)
	require.Len(t, top.Hosts, 1)

	_, err = qs.Reputation(f.Ctx, &types.QueryReputationRequest{Host: strangerAddr.String()})
	requireGRPCCode(t, err, codes.NotFound)
}

func TestQueryRewardSurface(t *testing.T) {
	f := testkeeper.NewFixture(t)
	qs := keeper.NewQueryServerImpl(f.Keeper)

	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 40000)

	pending, err := qs.PendingReward(f.Ctx, &types.QueryPendingRewardRequest{
		Staker: stakerAddr.String(),
		Denom:  testDenom,
	})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(40000), pending.Pending)

	position, err := qs.StakerPosition(f.Ctx, &types.QueryStakerPositionRequest{Staker: stakerAddr.String()})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1000000), position.Position.Amount)

	token, err := qs.RewardToken(f.Ctx, &types.QueryRewardTokenRequest{Denom: testDenom})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(40000), token.Token.TotalDistributed)

	total, err := qs.TotalStaked(f.Ctx, &types.QueryTotalStakedRequest{})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1000000), total.TotalStaked)

	breakdown, err := qs.PaymentBreakdown(f.Ctx, &types.QueryPaymentBreakdownRequest{Amount: math.NewInt(10000)})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(9000), breakdown.Breakdown.HostAmount)

	_, err = qs.PendingReward(f.Ctx, &types.QueryPendingRewardRequest{Staker: stakerAddr.String(), Denom: "!bad"})
	requireGRPCCode(t, err, codes.InvalidArgument)
	_, err = qs.StakerPosition(f.Ctx, &types.QueryStakerPositionRequest{Staker: strangerAddr.String()})
	requireGRPCCode(t, err, codes.NotFound)
}

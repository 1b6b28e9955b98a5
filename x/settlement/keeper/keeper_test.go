package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

const testDenom = "ugrid"

var (
	renterAddr     = testkeeper.Addr("renter")
	hostAddr       = testkeeper.Addr("host1")
	challengerAddr = testkeeper.Addr("challenger")
	stakerAddr     = testkeeper.Addr("staker1")
	staker2Addr    = testkeeper.Addr("staker2")
	strangerAddr   = testkeeper.Addr("stranger")
)

// postJob funds the renter and creates a job with the given max price.
func postJob(t *testing.T, f *testkeeper.Fixture, maxPrice int64) uint64 {
	t.Helper()
	f.FundAccount(t, renterAddr, math.NewInt(maxPrice), testDenom)
	jobID, err := f.Keeper.CreateJob(f.Ctx, renterAddr, "model-7b", "ipfs://input", math.NewInt(maxPrice), math.NewInt(maxPrice), testDenom, 3600)
	require.NoError(t, err)
	return jobID
}

// claimJob assigns the default host to a posted job.
func claimJob(t *testing.T, f *testkeeper.Fixture, jobID uint64) {
	t.Helper()
	require.NoError(t, f.Keeper.ClaimJob(f.Ctx, jobID, hostAddr))
}

// proveJob submits and verifies the default host's proof.
func proveJob(t *testing.T, f *testkeeper.Fixture, jobID uint64) {
	t.Helper()
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, []byte("execution trace")))
	verified, err := f.Keeper.VerifyProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.True(t, verified)
}

// completeJob runs the full post-claim-prove-complete flow.
func completeJob(t *testing.T, f *testkeeper.Fixture, maxPrice int64) uint64 {
	t.Helper()
	jobID := postJob(t, f, maxPrice)
	claimJob(t, f, jobID)
	proveJob(t, f, jobID)
	require.NoError(t, f.Keeper.CompleteJob(f.Ctx, jobID, hostAddr, "ipfs://result"))
	return jobID
}

// advanceTime moves the fixture context's block time forward.
func advanceTime(f *testkeeper.Fixture, d time.Duration) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(d))
}

func defaultChallengeStake() math.Int {
	return types.DefaultParams().MinChallengeStake
}

func requireJobStatus(t *testing.T, f *testkeeper.Fixture, jobID uint64, want types.JobStatus) {
	t.Helper()
	job, err := f.Keeper.GetJob(f.Ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, want, job.Status)
}

func requireEscrowStatus(t *testing.T, f *testkeeper.Fixture, escrowID uint64, want types.EscrowStatus) {
	t.Helper()
	escrow, err := f.Keeper.GetEscrow(f.Ctx, escrowID)
	require.NoError(t, err)
	require.Equal(t, want, escrow.Status)
}

func escrowIDForJob(t *testing.T, f *testkeeper.Fixture, jobID uint64) uint64 {
	t.Helper()
	job, err := f.Keeper.GetJob(f.Ctx, jobID)
	require.NoError(t, err)
	return job.EscrowId
}

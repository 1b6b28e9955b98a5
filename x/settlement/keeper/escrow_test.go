package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

func TestReleaseEscrow(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)

	err := f.Keeper.ReleaseEscrow(f.Ctx, escrowID, strangerAddr)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_RELEASED)

	// 10% release fee to the fee collector, remainder to the host.
	require.Equal(t, math.NewInt(900), f.Balance(hostAddr, testDenom))
	require.Equal(t, math.NewInt(100), f.TreasuryBalance(testDenom))

	err = f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrEscrowTerminal)
}

func TestReleaseEscrowRequiresBoundHost(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	escrowID := escrowIDForJob(t, f, jobID)

	// The job is still posted, so no host is bound yet.
	err := f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrWrongJobState)
}

func TestReleaseEscrowBlockedByOpenChallenge(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)
	escrowID := escrowIDForJob(t, f, jobID)

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", defaultChallengeStake())
	require.NoError(t, err)

	// Direct release must not short-circuit an open challenge.
	err = f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrChallengeActive)
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_ACTIVE)

	// Settling the challenge lifts the freeze.
	require.NoError(t, f.Keeper.ResolveChallenge(f.Ctx, challengeID, false))
	require.NoError(t, f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_RELEASED)
}

func TestDisputeEscrow(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)

	err := f.Keeper.DisputeEscrow(f.Ctx, escrowID, strangerAddr)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, f.Keeper.DisputeEscrow(f.Ctx, escrowID, hostAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_DISPUTED)

	// A disputed escrow is frozen.
	err = f.Keeper.ReleaseEscrow(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrEscrowNotActive)
	err = f.Keeper.DisputeEscrow(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrEscrowNotActive)
}

func TestResolveDisputeHostWins(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)
	require.NoError(t, f.Keeper.DisputeEscrow(f.Ctx, escrowID, renterAddr))

	err := f.Keeper.ResolveDispute(f.Ctx, escrowID, strangerAddr)
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	require.NoError(t, f.Keeper.ResolveDispute(f.Ctx, escrowID, hostAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_RESOLVED)

	// A host win pays out minus the release fee.
	require.Equal(t, math.NewInt(900), f.Balance(hostAddr, testDenom))
	require.Equal(t, math.NewInt(100), f.TreasuryBalance(testDenom))
}

func TestResolveDisputeRenterWins(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)
	require.NoError(t, f.Keeper.DisputeEscrow(f.Ctx, escrowID, renterAddr))

	require.NoError(t, f.Keeper.ResolveDispute(f.Ctx, escrowID, renterAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_RESOLVED)

	// A renter win refunds the full amount, no fee.
	require.Equal(t, math.NewInt(1000), f.Balance(renterAddr, testDenom))
	require.True(t, f.TreasuryBalance(testDenom).IsZero())

	err := f.Keeper.ResolveDispute(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrEscrowNotDisputed)
}

func TestTwoPhaseRefund(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)

	// Confirming before the host requests is rejected.
	err := f.Keeper.ConfirmRefund(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrRefundNotRequested)

	// Only the host may open the request.
	err = f.Keeper.RequestRefund(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrNotAssignedHost)
	require.NoError(t, f.Keeper.RequestRefund(f.Ctx, escrowID, hostAddr))

	// Only the renter may confirm.
	err = f.Keeper.ConfirmRefund(f.Ctx, escrowID, hostAddr)
	require.ErrorIs(t, err, types.ErrNotRenter)

	require.NoError(t, f.Keeper.ConfirmRefund(f.Ctx, escrowID, renterAddr))
	requireEscrowStatus(t, f, escrowID, types.ESCROW_STATUS_REFUNDED)

	// The full amount returns to the renter, no fee.
	require.Equal(t, math.NewInt(1000), f.Balance(renterAddr, testDenom))
	require.True(t, f.ModuleBalance(testDenom).IsZero())
}

func TestRefundRequestClearsWhenJobFails(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 1000)
	claimJob(t, f, jobID)
	escrowID := escrowIDForJob(t, f, jobID)

	require.NoError(t, f.Keeper.RequestRefund(f.Ctx, escrowID, hostAddr))
	require.NoError(t, f.Keeper.FailJob(f.Ctx, jobID, renterAddr))

	// The abandoning host's request must not survive into the next claim.
	escrow, err := f.Keeper.GetEscrow(f.Ctx, escrowID)
	require.NoError(t, err)
	require.False(t, escrow.RefundRequested)

	err = f.Keeper.ConfirmRefund(f.Ctx, escrowID, renterAddr)
	require.ErrorIs(t, err, types.ErrRefundNotRequested)
}

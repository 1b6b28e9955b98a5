package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

// provenJob runs a job to the Verified-proof stage and funds the challenger.
func provenJob(t *testing.T, f *testkeeper.Fixture) uint64 {
	t.Helper()
	jobID := postJob(t, f, 100)
	claimJob(t, f, jobID)
	proveJob(t, f, jobID)
	f.FundAccount(t, challengerAddr, defaultChallengeStake(), testDenom)
	return jobID
}

func TestChallengeProof(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)
	stake := defaultChallengeStake()

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.NoError(t, err)
	require.Equal(t, uint64(1), challengeID)

	challenge, err := f.Keeper.GetChallenge(f.Ctx, challengeID)
	require.NoError(t, err)
	require.Equal(t, types.CHALLENGE_STATUS_PENDING, challenge.Status)
	require.Equal(t, jobID, challenge.JobId)
	require.Equal(t, challengerAddr.String(), challenge.Challenger)
	require.Equal(t, stake, challenge.Stake)
	expectedDeadline := f.Ctx.BlockTime().Add(
		time.Duration(types.DefaultParams().ChallengePeriodSeconds) * time.Second)
	require.Equal(t, expectedDeadline, challenge.Deadline)

	// The bond is locked in the module account.
	require.True(t, f.Balance(challengerAddr, testDenom).IsZero())

	// An open challenge blocks settlement and further challenges.
	require.False(t, f.Keeper.CanCompleteJob(f.Ctx, jobID))
	f.FundAccount(t, challengerAddr, stake, testDenom)
	_, err = f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:more", stake)
	require.ErrorIs(t, err, types.ErrChallengeActive)
}

func TestChallengeProofValidation(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stake := defaultChallengeStake()

	jobID := postJob(t, f, 100)
	claimJob(t, f, jobID)
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, []byte("trace")))

	// Only Verified proofs can be challenged.
	_, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.ErrorIs(t, err, types.ErrProofNotVerified)

	verified, err := f.Keeper.VerifyProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.True(t, verified)

	_, err = f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", math.NewInt(999999))
	require.ErrorIs(t, err, types.ErrInsufficientStake)

	_, err = f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "", stake)
	require.ErrorIs(t, err, types.ErrEmptyReference)

	// Challenger holds no funds, so locking the bond fails.
	_, err = f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestResolveChallengeSuccessful(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)
	stake := defaultChallengeStake()

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.NoError(t, err)

	require.NoError(t, f.Keeper.ResolveChallenge(f.Ctx, challengeID, true))

	challenge, err := f.Keeper.GetChallenge(f.Ctx, challengeID)
	require.NoError(t, err)
	require.Equal(t, types.CHALLENGE_STATUS_SUCCESSFUL, challenge.Status)

	// The proof is invalidated, the bond returns, the prover is penalized.
	proof, err := f.Keeper.GetProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_INVALID, proof.Status)
	require.Equal(t, stake, f.Balance(challengerAddr, testDenom))

	rep, err := f.Keeper.GetHostReputation(f.Ctx, hostAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(80), rep.Score)

	require.False(t, f.Keeper.CanCompleteJob(f.Ctx, jobID))

	err = f.Keeper.ResolveChallenge(f.Ctx, challengeID, true)
	require.ErrorIs(t, err, types.ErrChallengeNotPending)
}

func TestResolveChallengeFailed(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)
	stake := defaultChallengeStake()

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.NoError(t, err)

	require.NoError(t, f.Keeper.ResolveChallenge(f.Ctx, challengeID, false))

	challenge, err := f.Keeper.GetChallenge(f.Ctx, challengeID)
	require.NoError(t, err)
	require.Equal(t, types.CHALLENGE_STATUS_FAILED, challenge.Status)

	// The forfeited bond compensates the prover and the proof stands.
	require.Equal(t, stake, f.Balance(hostAddr, testDenom))
	require.True(t, f.Balance(challengerAddr, testDenom).IsZero())

	proof, err := f.Keeper.GetProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_VERIFIED, proof.Status)
	require.True(t, f.Keeper.CanCompleteJob(f.Ctx, jobID))
}

func TestResolveChallengeAfterDeadline(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", defaultChallengeStake())
	require.NoError(t, err)

	advanceTime(f, 4*24*time.Hour)

	err = f.Keeper.ResolveChallenge(f.Ctx, challengeID, true)
	require.ErrorIs(t, err, types.ErrChallengeExpired)
}

func TestExpireChallenge(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := provenJob(t, f)
	stake := defaultChallengeStake()

	challengeID, err := f.Keeper.ChallengeProof(f.Ctx, jobID, challengerAddr, "sha256:evidence", stake)
	require.NoError(t, err)

	// Too early.
	err = f.Keeper.ExpireChallenge(f.Ctx, challengeID)
	require.ErrorIs(t, err, types.ErrChallengeActive)

	advanceTime(f, 4*24*time.Hour)
	require.NoError(t, f.Keeper.ExpireChallenge(f.Ctx, challengeID))

	challenge, err := f.Keeper.GetChallenge(f.Ctx, challengeID)
	require.NoError(t, err)
	require.Equal(t, types.CHALLENGE_STATUS_FAILED, challenge.Status)

	// The stake goes to the prover and settlement unblocks.
	require.Equal(t, stake, f.Balance(hostAddr, testDenom))
	require.True(t, f.Keeper.CanCompleteJob(f.Ctx, jobID))

	err = f.Keeper.ExpireChallenge(f.Ctx, challengeID)
	require.ErrorIs(t, err, types.ErrChallengeNotPending)
}

func TestChallengeNotFound(t *testing.T) {
	f := testkeeper.NewFixture(t)

	err := f.Keeper.ResolveChallenge(f.Ctx, 42, true)
	require.ErrorIs(t, err, types.ErrChallengeNotFound)
}

package keeper_test

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

func TestSubmitProof(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 100)
	claimJob(t, f, jobID)

	payload := []byte("execution trace")
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, payload))

	proof, err := f.Keeper.GetProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_SUBMITTED, proof.Status)
	require.Equal(t, hostAddr.String(), proof.Prover)
	require.Equal(t, keeper.HashProofPayload(payload), proof.ProofHash)

	err = f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, payload)
	require.ErrorIs(t, err, types.ErrProofAlreadySubmitted)
}

func TestSubmitProofValidation(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 100)

	// Only claimed jobs take proofs.
	err := f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, []byte("trace"))
	require.ErrorIs(t, err, types.ErrWrongJobState)

	claimJob(t, f, jobID)

	err = f.Keeper.SubmitProof(f.Ctx, jobID, strangerAddr, []byte("trace"))
	require.ErrorIs(t, err, types.ErrNotAssignedHost)

	err = f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, nil)
	require.ErrorIs(t, err, types.ErrInvalidProof)

	oversized := bytes.Repeat([]byte{0x7a}, int(types.DefaultParams().MaxProofSize)+1)
	err = f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, oversized)
	require.ErrorIs(t, err, types.ErrInvalidProof)
}

func TestVerifyProof(t *testing.T) {
	f := testkeeper.NewFixture(t)
	jobID := postJob(t, f, 100)
	claimJob(t, f, jobID)
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, jobID, hostAddr, []byte("trace")))

	verified, err := f.Keeper.VerifyProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.True(t, verified)

	proof, err := f.Keeper.GetProof(f.Ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_VERIFIED, proof.Status)
	require.True(t, f.Keeper.CanCompleteJob(f.Ctx, jobID))

	// Verification is a one-shot transition.
	_, err = f.Keeper.VerifyProof(f.Ctx, jobID)
	require.ErrorIs(t, err, types.ErrProofNotSubmitted)

	_, err = f.Keeper.VerifyProof(f.Ctx, 99)
	require.ErrorIs(t, err, types.ErrProofNotFound)
}

func TestVerifyProofInvalidHash(t *testing.T) {
	f := testkeeper.NewFixture(t)
	now := f.Ctx.BlockTime()
	deadline := now.Add(time.Hour)

	// Seed a proof whose stored digest does not match its payload.
	genesis := types.GenesisState{
		Params: types.DefaultParams(),
		Jobs: []types.Job{{
			Id:           1,
			Renter:       renterAddr.String(),
			Host:         hostAddr.String(),
			ModelId:      "model-7b",
			InputRef:     "ipfs://input",
			MaxPrice:     math.NewInt(100),
			PaymentDenom: testDenom,
			Deadline:     deadline,
			Status:       types.JOB_STATUS_CLAIMED,
			EscrowId:     1,
			CreatedAt:    now,
			ClaimedAt:    &now,
		}},
		NextJobId: 2,
		Escrows: []types.Escrow{{
			Id:        1,
			JobId:     1,
			Renter:    renterAddr.String(),
			Host:      hostAddr.String(),
			Amount:    math.NewInt(100),
			Denom:     testDenom,
			Status:    types.ESCROW_STATUS_ACTIVE,
			CreatedAt: now,
		}},
		NextEscrowId: 2,
		Proofs: []types.ProofRecord{{
			JobId:       1,
			Prover:      hostAddr.String(),
			SubmittedAt: now,
			Status:      types.PROOF_STATUS_SUBMITTED,
			ProofHash:   "deadbeef",
			Payload:     []byte("trace"),
		}},
		NextChallengeId: 1,
		TotalStaked:     math.ZeroInt(),
	}
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, genesis))

	verified, err := f.Keeper.VerifyProof(f.Ctx, 1)
	require.NoError(t, err)
	require.False(t, verified)

	proof, err := f.Keeper.GetProof(f.Ctx, 1)
	require.NoError(t, err)
	require.Equal(t, types.PROOF_STATUS_INVALID, proof.Status)
	require.False(t, f.Keeper.CanCompleteJob(f.Ctx, 1))

	// An invalid proof penalizes the prover immediately.
	rep, err := f.Keeper.GetHostReputation(f.Ctx, hostAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(80), rep.Score)
}

func TestBatchVerifyProofs(t *testing.T) {
	f := testkeeper.NewFixture(t)

	first := postJob(t, f, 100)
	claimJob(t, f, first)
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, first, hostAddr, []byte("trace one")))

	second := postJob(t, f, 100)
	require.NoError(t, f.Keeper.ClaimJob(f.Ctx, second, hostAddr))
	require.NoError(t, f.Keeper.SubmitProof(f.Ctx, second, hostAddr, []byte("trace two")))

	results, err := f.Keeper.BatchVerifyProofs(f.Ctx, []uint64{first, second, 77})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.True(t, results[0].Verified)
	require.Empty(t, results[0].Error)
	require.True(t, results[1].Verified)

	// Per-item failures report in place instead of aborting the batch.
	require.False(t, results[2].Verified)
	require.NotEmpty(t, results[2].Error)
}

func TestBatchVerifyProofsSizeLimit(t *testing.T) {
	f := testkeeper.NewFixture(t)

	ids := make([]uint64, types.DefaultParams().MaxBatchVerify+1)
	_, err := f.Keeper.BatchVerifyProofs(f.Ctx, ids)
	require.ErrorIs(t, err, types.ErrBatchTooLarge)
}

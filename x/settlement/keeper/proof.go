package keeper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// SubmitProof records the assigned host's execution proof for a claimed job.
// One proof per job; the content hash is computed and stored at submission.
func (k Keeper) SubmitProof(ctx context.Context, jobID uint64, prover sdk.AccAddress, payload []byte) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JOB_STATUS_CLAIMED {
		return types.ErrWrongJobState.Wrapf("job %d is %s", jobID, job.Status)
	}
	if job.Host != prover.String() {
		return types.ErrNotAssignedHost.Wrapf("%s is not the assigned host for job %d", prover, jobID)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return types.ErrInvalidProof.Wrap("proof payload is empty")
	}
	if uint64(len(payload)) > params.MaxProofSize {
		return types.ErrInvalidProof.Wrapf("proof payload %d bytes exceeds limit %d", len(payload), params.MaxProofSize)
	}

	if _, err := k.GetProof(ctx, jobID); err == nil {
		return types.ErrProofAlreadySubmitted.Wrapf("job %d already has a proof", jobID)
	}

	hash := HashProofPayload(payload)
	proof := types.ProofRecord{
		JobId:       jobID,
		Prover:      prover.String(),
		SubmittedAt: sdkCtx.BlockTime(),
		Status:      types.PROOF_STATUS_SUBMITTED,
		ProofHash:   hash,
		Payload:     payload,
	}
	k.setProof(ctx, proof)

	k.metrics.ProofsSubmitted.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProofSubmitted,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, prover.String()),
			sdk.NewAttribute(types.AttributeKeyProofHash, hash),
		),
	)

	return nil
}

// VerifyProof runs structural validation on a submitted proof and moves it
// to Verified or Invalid. An Invalid outcome records a reputation failure
// for the prover immediately. Authority gating happens in the msg server.
func (k Keeper) VerifyProof(ctx context.Context, jobID uint64) (bool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	proof, err := k.GetProof(ctx, jobID)
	if err != nil {
		return false, err
	}
	if proof.Status != types.PROOF_STATUS_SUBMITTED {
		return false, types.ErrProofNotSubmitted.Wrapf("proof for job %d is %s", jobID, proof.Status)
	}

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return false, err
	}

	verified := k.checkProofStructure(proof, job, params)
	if verified {
		proof.Status = types.PROOF_STATUS_VERIFIED
	} else {
		proof.Status = types.PROOF_STATUS_INVALID
	}
	k.setProof(ctx, proof)

	k.metrics.ProofsVerified.WithLabelValues(proof.Status.String()).Inc()

	if verified {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProofVerified,
				sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
				sdk.NewAttribute(types.AttributeKeyHost, proof.Prover),
			),
		)
		return true, nil
	}

	prover, err := sdk.AccAddressFromBech32(proof.Prover)
	if err == nil {
		if repErr := k.RecordJobCompletion(ctx, prover, jobID, false); repErr != nil {
			return false, repErr
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProofInvalidated,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, proof.Prover),
		),
	)

	return false, nil
}

// checkProofStructure is the deterministic verification step: payload bounds,
// hash consistency against the stored digest, and prover identity against
// the job's assigned host.
func (k Keeper) checkProofStructure(proof types.ProofRecord, job types.Job, params types.Params) bool {
	if len(proof.Payload) == 0 || uint64(len(proof.Payload)) > params.MaxProofSize {
		return false
	}
	if HashProofPayload(proof.Payload) != proof.ProofHash {
		return false
	}
	if job.Host != proof.Prover {
		return false
	}
	return true
}

// BatchVerifyProofs applies VerifyProof to each job in a bounded list,
// aggregating per-item outcomes instead of aborting on the first failure.
func (k Keeper) BatchVerifyProofs(ctx context.Context, jobIDs []uint64) ([]types.BatchVerifyResult, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if uint64(len(jobIDs)) > params.MaxBatchVerify {
		return nil, types.ErrBatchTooLarge.Wrapf("%d proofs exceeds batch limit %d", len(jobIDs), params.MaxBatchVerify)
	}

	results := make([]types.BatchVerifyResult, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		verified, err := k.VerifyProof(ctx, jobID)
		result := types.BatchVerifyResult{JobId: jobID, Verified: verified}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

// CanCompleteJob reports whether the job's proof is Verified with no open
// challenge. Pure query, exposed for external clients.
func (k Keeper) CanCompleteJob(ctx context.Context, jobID uint64) bool {
	return k.requireCompletable(ctx, jobID) == nil
}

// requireCompletable returns the precise reason completion is blocked.
func (k Keeper) requireCompletable(ctx context.Context, jobID uint64) error {
	proof, err := k.GetProof(ctx, jobID)
	if err != nil {
		return err
	}
	if proof.Status != types.PROOF_STATUS_VERIFIED {
		return types.ErrProofNotVerified.Wrapf("proof for job %d is %s", jobID, proof.Status)
	}
	if _, found := k.getPendingChallengeID(ctx, jobID); found {
		return types.ErrChallengeActive.Wrapf("job %d has an open challenge", jobID)
	}
	return nil
}

// GetProof retrieves the proof record for a job
func (k Keeper) GetProof(ctx context.Context, jobID uint64) (types.ProofRecord, error) {
	store := k.getStore(ctx)
	bz := store.Get(ProofKey(jobID))
	if bz == nil {
		return types.ProofRecord{}, types.ErrProofNotFound.Wrapf("no proof for job %d", jobID)
	}

	var proof types.ProofRecord
	if err := k.cdc.Unmarshal(bz, &proof); err != nil {
		return types.ProofRecord{}, fmt.Errorf("GetProof: unmarshal: %w", err)
	}
	return proof, nil
}

func (k Keeper) setProof(ctx context.Context, proof types.ProofRecord) {
	store := k.getStore(ctx)
	store.Set(ProofKey(proof.JobId), k.mustMarshal(&proof))
}

// HashProofPayload returns the hex sha256 digest of a proof payload.
func HashProofPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

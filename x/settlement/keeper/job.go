package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/hashgrid/grid/x/settlement/types"
)

// CreateJob posts a new job in Posted status and locks max_price into a
// fresh escrow in the same operation.
func (k Keeper) CreateJob(ctx context.Context, renter sdk.AccAddress, modelID, inputRef string, maxPrice, payment math.Int, denom string, deadlineSeconds uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if modelID == "" || inputRef == "" {
		return 0, types.ErrEmptyReference.Wrap("model ID and input reference are required")
	}
	if maxPrice.IsNil() || !maxPrice.IsPositive() {
		return 0, types.ErrInvalidAmount.Wrap("max price must be positive")
	}
	if payment.LT(maxPrice) {
		return 0, types.ErrInsufficientFunds.Wrapf("payment %s below max price %s", payment, maxPrice)
	}
	if deadlineSeconds == 0 {
		return 0, types.ErrInvalidDeadline.Wrap("deadline must be in the future")
	}

	now := sdkCtx.BlockTime()
	deadline := now.Add(time.Duration(deadlineSeconds) * time.Second)

	jobID := k.nextID(ctx, NextJobIDKey)

	escrowID, err := k.CreateEscrow(ctx, renter, jobID, maxPrice, denom)
	if err != nil {
		return 0, err
	}

	job := types.Job{
		Id:           jobID,
		Renter:       renter.String(),
		ModelId:      modelID,
		InputRef:     inputRef,
		MaxPrice:     maxPrice,
		PaymentDenom: denom,
		Deadline:     deadline,
		Status:       types.JOB_STATUS_POSTED,
		EscrowId:     escrowID,
		CreatedAt:    now,
	}
	k.setJob(ctx, job)

	store := k.getStore(ctx)
	store.Set(JobByRenterKey(renter, jobID), []byte{})
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{})

	k.metrics.JobsCreated.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCreated,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyRenter, renter.String()),
			sdk.NewAttribute(types.AttributeKeyModelID, modelID),
			sdk.NewAttribute(types.AttributeKeyEscrowID, fmt.Sprintf("%d", escrowID)),
			sdk.NewAttribute(types.AttributeKeyAmount, maxPrice.String()),
			sdk.NewAttribute(types.AttributeKeyDeadline, deadline.Format(time.RFC3339)),
		),
	)

	return jobID, nil
}

// ClaimJob assigns a posted job to a host after checking eligibility with
// the registry.
func (k Keeper) ClaimJob(ctx context.Context, jobID uint64, host sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JOB_STATUS_POSTED {
		return types.ErrJobNotClaimable.Wrapf("job %d is %s", jobID, job.Status)
	}
	if !k.hostRegistry.IsEligibleHost(ctx, host) {
		return types.ErrHostNotEligible.Wrapf("host %s is not eligible", host)
	}

	now := sdkCtx.BlockTime()
	oldStatus := job.Status
	job.Host = host.String()
	job.Status = types.JOB_STATUS_CLAIMED
	job.ClaimedAt = &now
	k.setJob(ctx, job)

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(oldStatus), jobID))
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{})
	store.Set(JobByHostKey(host, jobID), []byte{})

	if err := k.bindEscrowHost(ctx, job.EscrowId, host); err != nil {
		return err
	}

	k.metrics.JobsClaimed.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobClaimed,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, host.String()),
		),
	)

	return nil
}

// CompleteJob finishes a claimed job. The proof must already be Verified
// with no open challenge; settlement then flows through the payment splitter
// and the host's reputation records a success.
func (k Keeper) CompleteJob(ctx context.Context, jobID uint64, host sdk.AccAddress, resultRef string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JOB_STATUS_CLAIMED {
		return types.ErrWrongJobState.Wrapf("job %d is %s", jobID, job.Status)
	}
	if job.Host != host.String() {
		return types.ErrNotAssignedHost.Wrapf("%s is not the assigned host for job %d", host, jobID)
	}
	if resultRef == "" {
		return types.ErrEmptyReference.Wrap("result reference is required")
	}

	now := sdkCtx.BlockTime()
	if now.After(job.Deadline) {
		return types.ErrDeadlineExpired.Wrapf("job %d deadline passed at %s", jobID, job.Deadline.Format(time.RFC3339))
	}

	if err := k.requireCompletable(ctx, jobID); err != nil {
		return err
	}

	escrow, err := k.GetEscrow(ctx, job.EscrowId)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrow.Id, escrow.Status)
	}

	// Effects before the settlement transfers.
	oldStatus := job.Status
	job.Status = types.JOB_STATUS_COMPLETED
	job.ResultRef = resultRef
	job.CompletedAt = &now
	k.setJob(ctx, job)

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(oldStatus), jobID))
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{})

	escrow.Status = types.ESCROW_STATUS_RELEASED
	escrow.ClosedAt = &now
	k.setEscrow(ctx, escrow)

	breakdown, err := k.SplitPayment(ctx, jobID, escrow.Amount, host, escrow.Denom)
	if err != nil {
		return err
	}

	if err := k.RecordJobCompletion(ctx, host, jobID, true); err != nil {
		return err
	}

	k.metrics.JobsCompleted.WithLabelValues(escrow.Denom).Inc()
	k.metrics.EscrowReleased.WithLabelValues(escrow.Denom).Add(floatAmount(breakdown.HostAmount))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCompleted,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, host.String()),
			sdk.NewAttribute(types.AttributeKeyResultRef, resultRef),
			sdk.NewAttribute(types.AttributeKeyHostAmount, breakdown.HostAmount.String()),
			sdk.NewAttribute(types.AttributeKeyProtocolAmount, breakdown.ProtocolAmount.String()),
			sdk.NewAttribute(types.AttributeKeyStakerAmount, breakdown.StakerAmount.String()),
		),
	)

	return nil
}

// FailJob abandons a claimed job. Either the renter or the assigned host may
// call it; the job resets to Posted, the host detaches, the proof record is
// cleared for the next claimant, and the host's reputation records a failure.
func (k Keeper) FailJob(ctx context.Context, jobID uint64, actor sdk.AccAddress) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, err := k.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != types.JOB_STATUS_CLAIMED {
		return types.ErrWrongJobState.Wrapf("job %d is %s", jobID, job.Status)
	}

	actorStr := actor.String()
	if actorStr != job.Renter && actorStr != job.Host {
		return types.ErrUnauthorized.Wrapf("%s may not fail job %d", actorStr, jobID)
	}

	if _, found := k.getPendingChallengeID(ctx, jobID); found {
		return types.ErrChallengeActive.Wrapf("job %d has an open challenge", jobID)
	}

	escrow, err := k.GetEscrow(ctx, job.EscrowId)
	if err != nil {
		return err
	}
	if escrow.Status != types.ESCROW_STATUS_ACTIVE {
		if escrow.Status.IsTerminal() {
			return types.ErrEscrowTerminal.Wrapf("escrow %d is %s", escrow.Id, escrow.Status)
		}
		return types.ErrEscrowNotActive.Wrapf("escrow %d is %s", escrow.Id, escrow.Status)
	}

	host, err := sdk.AccAddressFromBech32(job.Host)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("job host: %v", err)
	}

	oldStatus := job.Status
	job.Status = types.JOB_STATUS_POSTED
	job.Host = ""
	job.ClaimedAt = nil
	k.setJob(ctx, job)

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(oldStatus), jobID))
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{})
	store.Delete(JobByHostKey(host, jobID))
	store.Delete(ProofKey(jobID))

	if err := k.clearEscrowHost(ctx, job.EscrowId); err != nil {
		return err
	}

	if err := k.RecordJobCompletion(ctx, host, jobID, false); err != nil {
		return err
	}

	k.metrics.JobsFailed.WithLabelValues(actorRole(actorStr, job.Renter)).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobFailed,
			sdk.NewAttribute(types.AttributeKeyJobID, fmt.Sprintf("%d", jobID)),
			sdk.NewAttribute(types.AttributeKeyHost, host.String()),
			sdk.NewAttribute(types.AttributeKeyActor, actorStr),
		),
	)

	return nil
}

// GetJob retrieves a job by ID
func (k Keeper) GetJob(ctx context.Context, jobID uint64) (types.Job, error) {
	store := k.getStore(ctx)
	bz := store.Get(JobKey(jobID))
	if bz == nil {
		return types.Job{}, types.ErrJobNotFound.Wrapf("job %d", jobID)
	}

	var job types.Job
	if err := k.cdc.Unmarshal(bz, &job); err != nil {
		return types.Job{}, fmt.Errorf("GetJob: unmarshal: %w", err)
	}
	return job, nil
}

func (k Keeper) setJob(ctx context.Context, job types.Job) {
	store := k.getStore(ctx)
	store.Set(JobKey(job.Id), k.mustMarshal(&job))
}

// GetJobsByRenter returns all jobs posted by a renter
func (k Keeper) GetJobsByRenter(ctx context.Context, renter sdk.AccAddress) ([]types.Job, error) {
	return k.collectJobsByIndex(ctx, append(JobsByRenterPrefix, renter.Bytes()...))
}

// GetJobsByHost returns all jobs currently or last assigned to a host
func (k Keeper) GetJobsByHost(ctx context.Context, host sdk.AccAddress) ([]types.Job, error) {
	return k.collectJobsByIndex(ctx, append(JobsByHostPrefix, host.Bytes()...))
}

// GetJobsByStatus returns all jobs in a given status
func (k Keeper) GetJobsByStatus(ctx context.Context, status types.JobStatus) ([]types.Job, error) {
	return k.collectJobsByIndex(ctx, JobByStatusPrefixForStatus(uint32(status)))
}

func (k Keeper) collectJobsByIndex(ctx context.Context, prefix []byte) ([]types.Job, error) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var jobs []types.Job
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) < 8 {
			continue
		}
		jobID := GetIDFromBytes(key[len(key)-8:])

		job, err := k.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func actorRole(actor, renter string) string {
	if actor == renter {
		return "renter"
	}
	return "host"
}

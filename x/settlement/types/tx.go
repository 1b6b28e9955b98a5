package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer is the transaction-handling surface of the settlement module.
type MsgServer interface {
	CreateJob(context.Context, *MsgCreateJob) (*MsgCreateJobResponse, error)
	ClaimJob(context.Context, *MsgClaimJob) (*MsgClaimJobResponse, error)
	SubmitProof(context.Context, *MsgSubmitProof) (*MsgSubmitProofResponse, error)
	VerifyProof(context.Context, *MsgVerifyProof) (*MsgVerifyProofResponse, error)
	BatchVerifyProofs(context.Context, *MsgBatchVerifyProofs) (*MsgBatchVerifyProofsResponse, error)
	CompleteJob(context.Context, *MsgCompleteJob) (*MsgCompleteJobResponse, error)
	FailJob(context.Context, *MsgFailJob) (*MsgFailJobResponse, error)
	ChallengeProof(context.Context, *MsgChallengeProof) (*MsgChallengeProofResponse, error)
	ResolveChallenge(context.Context, *MsgResolveChallenge) (*MsgResolveChallengeResponse, error)
	ExpireChallenge(context.Context, *MsgExpireChallenge) (*MsgExpireChallengeResponse, error)
	ReleaseEscrow(context.Context, *MsgReleaseEscrow) (*MsgReleaseEscrowResponse, error)
	DisputeEscrow(context.Context, *MsgDisputeEscrow) (*MsgDisputeEscrowResponse, error)
	ResolveDispute(context.Context, *MsgResolveDispute) (*MsgResolveDisputeResponse, error)
	RequestRefund(context.Context, *MsgRequestRefund) (*MsgRequestRefundResponse, error)
	ConfirmRefund(context.Context, *MsgConfirmRefund) (*MsgConfirmRefundResponse, error)
	RateHost(context.Context, *MsgRateHost) (*MsgRateHostResponse, error)
	SlashReputation(context.Context, *MsgSlashReputation) (*MsgSlashReputationResponse, error)
	UpdateStake(context.Context, *MsgUpdateStake) (*MsgUpdateStakeResponse, error)
	DistributeRewards(context.Context, *MsgDistributeRewards) (*MsgDistributeRewardsResponse, error)
	ClaimReward(context.Context, *MsgClaimReward) (*MsgClaimRewardResponse, error)
	ClaimAllRewards(context.Context, *MsgClaimAllRewards) (*MsgClaimAllRewardsResponse, error)
	CompoundRewards(context.Context, *MsgCompoundRewards) (*MsgCompoundRewardsResponse, error)
	EmergencyWithdraw(context.Context, *MsgEmergencyWithdraw) (*MsgEmergencyWithdrawResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type MsgCreateJobResponse struct {
	JobId    uint64 `json:"job_id"`
	EscrowId uint64 `json:"escrow_id"`
}

type MsgClaimJobResponse struct{}

type MsgSubmitProofResponse struct {
	ProofHash string `json:"proof_hash"`
}

type MsgVerifyProofResponse struct {
	Verified bool `json:"verified"`
}

type MsgBatchVerifyProofsResponse struct {
	Results []BatchVerifyResult `json:"results"`
}

type MsgCompleteJobResponse struct{}

type MsgFailJobResponse struct{}

type MsgChallengeProofResponse struct {
	ChallengeId uint64 `json:"challenge_id"`
}

type MsgResolveChallengeResponse struct{}

type MsgExpireChallengeResponse struct{}

type MsgReleaseEscrowResponse struct{}

type MsgDisputeEscrowResponse struct{}

type MsgResolveDisputeResponse struct{}

type MsgRequestRefundResponse struct{}

type MsgConfirmRefundResponse struct{}

type MsgRateHostResponse struct{}

type MsgSlashReputationResponse struct{}

type MsgUpdateStakeResponse struct{}

type MsgDistributeRewardsResponse struct{}

type MsgClaimRewardResponse struct {
	Amount math.Int `json:"amount"`
}

type MsgClaimAllRewardsResponse struct {
	Claimed sdk.Coins `json:"claimed"`
}

type MsgCompoundRewardsResponse struct {
	Compounded math.Int `json:"compounded"`
}

type MsgEmergencyWithdrawResponse struct {
	Returned math.Int `json:"returned"`
}

type MsgUpdateParamsResponse struct{}

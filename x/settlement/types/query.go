package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer is the read-only surface of the settlement module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Job(context.Context, *QueryJobRequest) (*QueryJobResponse, error)
	JobsByRenter(context.Context, *QueryJobsByRenterRequest) (*QueryJobsResponse, error)
	JobsByHost(context.Context, *QueryJobsByHostRequest) (*QueryJobsResponse, error)
	JobsByStatus(context.Context, *QueryJobsByStatusRequest) (*QueryJobsResponse, error)
	Escrow(context.Context, *QueryEscrowRequest) (*QueryEscrowResponse, error)
	Proof(context.Context, *QueryProofRequest) (*QueryProofResponse, error)
	Challenge(context.Context, *QueryChallengeRequest) (*QueryChallengeResponse, error)
	Reputation(context.Context, *QueryReputationRequest) (*QueryReputationResponse, error)
	AverageRating(context.Context, *QueryAverageRatingRequest) (*QueryAverageRatingResponse, error)
	TopHosts(context.Context, *QueryTopHostsRequest) (*QueryTopHostsResponse, error)
	PaymentBreakdown(context.Context, *QueryPaymentBreakdownRequest) (*QueryPaymentBreakdownResponse, error)
	PendingReward(context.Context, *QueryPendingRewardRequest) (*QueryPendingRewardResponse, error)
	StakerPosition(context.Context, *QueryStakerPositionRequest) (*QueryStakerPositionResponse, error)
	RewardToken(context.Context, *QueryRewardTokenRequest) (*QueryRewardTokenResponse, error)
	TotalStaked(context.Context, *QueryTotalStakedRequest) (*QueryTotalStakedResponse, error)
	CanCompleteJob(context.Context, *QueryCanCompleteJobRequest) (*QueryCanCompleteJobResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryJobRequest struct {
	JobId uint64 `json:"job_id"`
}

type QueryJobResponse struct {
	Job Job `json:"job"`
}

type QueryJobsByRenterRequest struct {
	Renter string `json:"renter"`
}

type QueryJobsByHostRequest struct {
	Host string `json:"host"`
}

type QueryJobsByStatusRequest struct {
	Status JobStatus `json:"status"`
}

type QueryJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

type QueryEscrowRequest struct {
	EscrowId uint64 `json:"escrow_id"`
}

type QueryEscrowResponse struct {
	Escrow Escrow `json:"escrow"`
}

type QueryProofRequest struct {
	JobId uint64 `json:"job_id"`
}

type QueryProofResponse struct {
	Proof ProofRecord `json:"proof"`
}

type QueryChallengeRequest struct {
	ChallengeId uint64 `json:"challenge_id"`
}

type QueryChallengeResponse struct {
	Challenge Challenge `json:"challenge"`
}

type QueryReputationRequest struct {
	Host string `json:"host"`
}

type QueryReputationResponse struct {
	Reputation HostReputation `json:"reputation"`
}

type QueryAverageRatingRequest struct {
	Host string `json:"host"`
}

type QueryAverageRatingResponse struct {
	AverageRating math.LegacyDec `json:"average_rating"`
}

type QueryTopHostsRequest struct {
	Limit uint32 `json:"limit"`
}

type QueryTopHostsResponse struct {
	Hosts []HostReputation `json:"hosts"`
}

type QueryPaymentBreakdownRequest struct {
	Amount math.Int `json:"amount"`
}

type QueryPaymentBreakdownResponse struct {
	Breakdown PaymentBreakdown `json:"breakdown"`
}

type QueryPendingRewardRequest struct {
	Staker string `json:"staker"`
	Denom  string `json:"denom"`
}

type QueryPendingRewardResponse struct {
	Pending math.Int `json:"pending"`
}

type QueryStakerPositionRequest struct {
	Staker string `json:"staker"`
}

type QueryStakerPositionResponse struct {
	Position StakerPosition `json:"position"`
}

type QueryRewardTokenRequest struct {
	Denom string `json:"denom"`
}

type QueryRewardTokenResponse struct {
	Token RewardTokenState `json:"token"`
}

type QueryTotalStakedRequest struct{}

type QueryTotalStakedResponse struct {
	TotalStaked math.Int `json:"total_staked"`
}

type QueryCanCompleteJobRequest struct {
	JobId uint64 `json:"job_id"`
}

type QueryCanCompleteJobResponse struct {
	CanComplete bool `json:"can_complete"`
}

package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Message definitions for the settlement module. These are plain structs
// registered with the legacy amino codec; each implements proto.Message so
// it satisfies sdk.Msg.

// MsgCreateJob posts a new job and escrows the payment.
type MsgCreateJob struct {
	Renter          string   `json:"renter"`
	ModelId         string   `json:"model_id"`
	InputRef        string   `json:"input_ref"`
	MaxPrice        math.Int `json:"max_price"`
	Payment         math.Int `json:"payment"`
	PaymentDenom    string   `json:"payment_denom"`
	DeadlineSeconds uint64   `json:"deadline_seconds"`
}

func (msg *MsgCreateJob) Reset()         { *msg = MsgCreateJob{} }
func (msg *MsgCreateJob) String() string { return fmt.Sprintf("MsgCreateJob{%s %s}", msg.Renter, msg.ModelId) }
func (msg *MsgCreateJob) ProtoMessage()  {}

// MsgClaimJob assigns a posted job to an eligible host.
type MsgClaimJob struct {
	Host  string `json:"host"`
	JobId uint64 `json:"job_id"`
}

func (msg *MsgClaimJob) Reset()         { *msg = MsgClaimJob{} }
func (msg *MsgClaimJob) String() string { return fmt.Sprintf("MsgClaimJob{%s %d}", msg.Host, msg.JobId) }
func (msg *MsgClaimJob) ProtoMessage()  {}

// MsgSubmitProof submits the execution proof for a claimed job.
type MsgSubmitProof struct {
	Prover  string `json:"prover"`
	JobId   uint64 `json:"job_id"`
	Payload []byte `json:"payload"`
}

func (msg *MsgSubmitProof) Reset()         { *msg = MsgSubmitProof{} }
func (msg *MsgSubmitProof) String() string { return fmt.Sprintf("MsgSubmitProof{%s %d}", msg.Prover, msg.JobId) }
func (msg *MsgSubmitProof) ProtoMessage()  {}

// MsgVerifyProof runs verification on a submitted proof. Authority gated.
type MsgVerifyProof struct {
	Authority string `json:"authority"`
	JobId     uint64 `json:"job_id"`
}

func (msg *MsgVerifyProof) Reset()         { *msg = MsgVerifyProof{} }
func (msg *MsgVerifyProof) String() string { return fmt.Sprintf("MsgVerifyProof{%d}", msg.JobId) }
func (msg *MsgVerifyProof) ProtoMessage()  {}

// MsgBatchVerifyProofs verifies a bounded list of submitted proofs.
type MsgBatchVerifyProofs struct {
	Authority string   `json:"authority"`
	JobIds    []uint64 `json:"job_ids"`
}

func (msg *MsgBatchVerifyProofs) Reset()         { *msg = MsgBatchVerifyProofs{} }
func (msg *MsgBatchVerifyProofs) String() string { return fmt.Sprintf("MsgBatchVerifyProofs{%d}", len(msg.JobIds)) }
func (msg *MsgBatchVerifyProofs) ProtoMessage()  {}

// MsgCompleteJob finishes a claimed job and settles the escrow.
type MsgCompleteJob struct {
	Host      string `json:"host"`
	JobId     uint64 `json:"job_id"`
	ResultRef string `json:"result_ref"`
}

func (msg *MsgCompleteJob) Reset()         { *msg = MsgCompleteJob{} }
func (msg *MsgCompleteJob) String() string { return fmt.Sprintf("MsgCompleteJob{%s %d}", msg.Host, msg.JobId) }
func (msg *MsgCompleteJob) ProtoMessage()  {}

// MsgFailJob abandons a claimed job, resetting it to posted.
type MsgFailJob struct {
	Actor string `json:"actor"`
	JobId uint64 `json:"job_id"`
}

func (msg *MsgFailJob) Reset()         { *msg = MsgFailJob{} }
func (msg *MsgFailJob) String() string { return fmt.Sprintf("MsgFailJob{%s %d}", msg.Actor, msg.JobId) }
func (msg *MsgFailJob) ProtoMessage()  {}

// MsgChallengeProof opens a bonded challenge against a verified proof.
type MsgChallengeProof struct {
	Challenger   string   `json:"challenger"`
	JobId        uint64   `json:"job_id"`
	EvidenceHash string   `json:"evidence_hash"`
	Stake        math.Int `json:"stake"`
}

func (msg *MsgChallengeProof) Reset()         { *msg = MsgChallengeProof{} }
func (msg *MsgChallengeProof) String() string { return fmt.Sprintf("MsgChallengeProof{%s %d}", msg.Challenger, msg.JobId) }
func (msg *MsgChallengeProof) ProtoMessage()  {}

// MsgResolveChallenge settles a pending challenge. Authority gated.
type MsgResolveChallenge struct {
	Authority   string `json:"authority"`
	ChallengeId uint64 `json:"challenge_id"`
	Successful  bool   `json:"successful"`
}

func (msg *MsgResolveChallenge) Reset()         { *msg = MsgResolveChallenge{} }
func (msg *MsgResolveChallenge) String() string { return fmt.Sprintf("MsgResolveChallenge{%d %t}", msg.ChallengeId, msg.Successful) }
func (msg *MsgResolveChallenge) ProtoMessage()  {}

// MsgExpireChallenge fails a pending challenge whose deadline has passed.
// Callable by anyone.
type MsgExpireChallenge struct {
	Caller      string `json:"caller"`
	ChallengeId uint64 `json:"challenge_id"`
}

func (msg *MsgExpireChallenge) Reset()         { *msg = MsgExpireChallenge{} }
func (msg *MsgExpireChallenge) String() string { return fmt.Sprintf("MsgExpireChallenge{%d}", msg.ChallengeId) }
func (msg *MsgExpireChallenge) ProtoMessage()  {}

// MsgReleaseEscrow releases an active escrow to the host, minus the fee.
type MsgReleaseEscrow struct {
	Caller   string `json:"caller"`
	EscrowId uint64 `json:"escrow_id"`
}

func (msg *MsgReleaseEscrow) Reset()         { *msg = MsgReleaseEscrow{} }
func (msg *MsgReleaseEscrow) String() string { return fmt.Sprintf("MsgReleaseEscrow{%s %d}", msg.Caller, msg.EscrowId) }
func (msg *MsgReleaseEscrow) ProtoMessage()  {}

// MsgDisputeEscrow moves an active escrow into dispute.
type MsgDisputeEscrow struct {
	Caller   string `json:"caller"`
	EscrowId uint64 `json:"escrow_id"`
}

func (msg *MsgDisputeEscrow) Reset()         { *msg = MsgDisputeEscrow{} }
func (msg *MsgDisputeEscrow) String() string { return fmt.Sprintf("MsgDisputeEscrow{%s %d}", msg.Caller, msg.EscrowId) }
func (msg *MsgDisputeEscrow) ProtoMessage()  {}

// MsgResolveDispute settles a disputed escrow in favor of the winner.
// Authority gated. Winner must be the escrow's renter or host.
type MsgResolveDispute struct {
	Authority string `json:"authority"`
	EscrowId  uint64 `json:"escrow_id"`
	Winner    string `json:"winner"`
}

func (msg *MsgResolveDispute) Reset()         { *msg = MsgResolveDispute{} }
func (msg *MsgResolveDispute) String() string { return fmt.Sprintf("MsgResolveDispute{%d %s}", msg.EscrowId, msg.Winner) }
func (msg *MsgResolveDispute) ProtoMessage()  {}

// MsgRequestRefund is the host's half of the two-phase refund.
type MsgRequestRefund struct {
	Host     string `json:"host"`
	EscrowId uint64 `json:"escrow_id"`
}

func (msg *MsgRequestRefund) Reset()         { *msg = MsgRequestRefund{} }
func (msg *MsgRequestRefund) String() string { return fmt.Sprintf("MsgRequestRefund{%s %d}", msg.Host, msg.EscrowId) }
func (msg *MsgRequestRefund) ProtoMessage()  {}

// MsgConfirmRefund is the renter's half of the two-phase refund.
type MsgConfirmRefund struct {
	Renter   string `json:"renter"`
	EscrowId uint64 `json:"escrow_id"`
}

func (msg *MsgConfirmRefund) Reset()         { *msg = MsgConfirmRefund{} }
func (msg *MsgConfirmRefund) String() string { return fmt.Sprintf("MsgConfirmRefund{%s %d}", msg.Renter, msg.EscrowId) }
func (msg *MsgConfirmRefund) ProtoMessage()  {}

// MsgRateHost records a renter's rating of the host for a completed job.
type MsgRateHost struct {
	Renter   string `json:"renter"`
	JobId    uint64 `json:"job_id"`
	Rating   uint32 `json:"rating"`
	Feedback string `json:"feedback"`
}

func (msg *MsgRateHost) Reset()         { *msg = MsgRateHost{} }
func (msg *MsgRateHost) String() string { return fmt.Sprintf("MsgRateHost{%d %d}", msg.JobId, msg.Rating) }
func (msg *MsgRateHost) ProtoMessage()  {}

// MsgSlashReputation cuts a host's reputation by a percentage. Authority
// gated.
type MsgSlashReputation struct {
	Authority  string `json:"authority"`
	Host       string `json:"host"`
	Percentage uint64 `json:"percentage"`
}

func (msg *MsgSlashReputation) Reset()         { *msg = MsgSlashReputation{} }
func (msg *MsgSlashReputation) String() string { return fmt.Sprintf("MsgSlashReputation{%s %d}", msg.Host, msg.Percentage) }
func (msg *MsgSlashReputation) ProtoMessage()  {}

// MsgUpdateStake sets the staker's position to a new absolute amount.
type MsgUpdateStake struct {
	Staker    string   `json:"staker"`
	NewAmount math.Int `json:"new_amount"`
}

func (msg *MsgUpdateStake) Reset()         { *msg = MsgUpdateStake{} }
func (msg *MsgUpdateStake) String() string { return fmt.Sprintf("MsgUpdateStake{%s %s}", msg.Staker, msg.NewAmount) }
func (msg *MsgUpdateStake) ProtoMessage()  {}

// MsgDistributeRewards pushes a reward inflow into the staking pool.
// Authority gated; funds move from the authority account.
type MsgDistributeRewards struct {
	Authority string   `json:"authority"`
	Denom     string   `json:"denom"`
	Amount    math.Int `json:"amount"`
}

func (msg *MsgDistributeRewards) Reset()         { *msg = MsgDistributeRewards{} }
func (msg *MsgDistributeRewards) String() string { return fmt.Sprintf("MsgDistributeRewards{%s %s}", msg.Denom, msg.Amount) }
func (msg *MsgDistributeRewards) ProtoMessage()  {}

// MsgClaimReward pays out the staker's pending reward in one denom.
type MsgClaimReward struct {
	Staker string `json:"staker"`
	Denom  string `json:"denom"`
}

func (msg *MsgClaimReward) Reset()         { *msg = MsgClaimReward{} }
func (msg *MsgClaimReward) String() string { return fmt.Sprintf("MsgClaimReward{%s %s}", msg.Staker, msg.Denom) }
func (msg *MsgClaimReward) ProtoMessage()  {}

// MsgClaimAllRewards pays out the staker's pending rewards in every denom.
type MsgClaimAllRewards struct {
	Staker string `json:"staker"`
}

func (msg *MsgClaimAllRewards) Reset()         { *msg = MsgClaimAllRewards{} }
func (msg *MsgClaimAllRewards) String() string { return fmt.Sprintf("MsgClaimAllRewards{%s}", msg.Staker) }
func (msg *MsgClaimAllRewards) ProtoMessage()  {}

// MsgCompoundRewards folds the staking-denom pending reward into the stake.
type MsgCompoundRewards struct {
	Staker string `json:"staker"`
}

func (msg *MsgCompoundRewards) Reset()         { *msg = MsgCompoundRewards{} }
func (msg *MsgCompoundRewards) String() string { return fmt.Sprintf("MsgCompoundRewards{%s}", msg.Staker) }
func (msg *MsgCompoundRewards) ProtoMessage()  {}

// MsgEmergencyWithdraw returns the full stake and forfeits pending rewards.
type MsgEmergencyWithdraw struct {
	Staker string `json:"staker"`
}

func (msg *MsgEmergencyWithdraw) Reset()         { *msg = MsgEmergencyWithdraw{} }
func (msg *MsgEmergencyWithdraw) String() string { return fmt.Sprintf("MsgEmergencyWithdraw{%s}", msg.Staker) }
func (msg *MsgEmergencyWithdraw) ProtoMessage()  {}

// MsgUpdateParams replaces the module parameters. Authority gated.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

func (msg *MsgUpdateParams) Reset()         { *msg = MsgUpdateParams{} }
func (msg *MsgUpdateParams) String() string { return fmt.Sprintf("MsgUpdateParams{%s}", msg.Authority) }
func (msg *MsgUpdateParams) ProtoMessage()  {}

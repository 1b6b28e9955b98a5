package types

// Event types for the settlement module.
// All event types use lowercase with underscore separator (module_action format).
const (
	// Job events
	EventTypeJobCreated   = "job_created"
	EventTypeJobClaimed   = "job_claimed"
	EventTypeJobCompleted = "job_completed"
	EventTypeJobFailed    = "job_failed"

	// Escrow events
	EventTypeEscrowCreated   = "escrow_created"
	EventTypeEscrowReleased  = "escrow_released"
	EventTypeEscrowDisputed  = "escrow_disputed"
	EventTypeEscrowResolved  = "escrow_resolved"
	EventTypeRefundRequested = "escrow_refund_requested"
	EventTypeEscrowRefunded  = "escrow_refunded"

	// Proof and challenge events
	EventTypeProofSubmitted     = "proof_submitted"
	EventTypeProofVerified      = "proof_verified"
	EventTypeProofInvalidated   = "proof_invalidated"
	EventTypeChallengeOpened    = "challenge_opened"
	EventTypeChallengeResolved  = "challenge_resolved"
	EventTypeChallengeExpired   = "challenge_expired"

	// Reputation events
	EventTypeReputationUpdated = "reputation_updated"
	EventTypeHostRated         = "host_rated"
	EventTypeReputationSlashed = "reputation_slashed"

	// Fee split and reward events
	EventTypePaymentSplit       = "payment_split"
	EventTypeRewardsDistributed = "rewards_distributed"
	EventTypeStakeUpdated       = "stake_updated"
	EventTypeRewardClaimed      = "reward_claimed"
	EventTypeRewardsCompounded  = "rewards_compounded"
	EventTypeEmergencyWithdraw  = "emergency_withdraw"

	// Failure events
	EventTypeSettlementFailure = "settlement_failure"
)

// Event attribute keys for the settlement module.
const (
	AttributeKeyJobID        = "job_id"
	AttributeKeyEscrowID     = "escrow_id"
	AttributeKeyChallengeID  = "challenge_id"
	AttributeKeyRenter       = "renter"
	AttributeKeyHost         = "host"
	AttributeKeyStaker       = "staker"
	AttributeKeyChallenger   = "challenger"
	AttributeKeyActor        = "actor"
	AttributeKeyWinner       = "winner"
	AttributeKeyAmount       = "amount"
	AttributeKeyFee          = "fee"
	AttributeKeyDenom        = "denom"
	AttributeKeyStatus       = "status"
	AttributeKeyDeadline     = "deadline"
	AttributeKeyModelID      = "model_id"
	AttributeKeyResultRef    = "result_ref"
	AttributeKeyProofHash    = "proof_hash"
	AttributeKeyEvidenceHash = "evidence_hash"
	AttributeKeyStake        = "stake"
	AttributeKeyScore        = "score"
	AttributeKeyRating       = "rating"
	AttributeKeyFeedback     = "feedback"
	AttributeKeyHostAmount   = "host_amount"
	AttributeKeyProtocolAmount = "protocol_amount"
	AttributeKeyStakerAmount = "staker_amount"
	AttributeKeyAccPerShare  = "acc_per_share"
	AttributeKeyReason       = "reason"
	AttributeKeySuccess      = "success"
)

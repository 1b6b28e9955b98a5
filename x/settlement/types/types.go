package types

import (
	"time"

	"cosmossdk.io/math"
)

// JobStatus tracks a job through its lifecycle. The only legal transitions are
// Posted -> Claimed -> Completed, with Claimed -> Posted on failure.
type JobStatus int32

const (
	JOB_STATUS_UNSPECIFIED JobStatus = 0
	JOB_STATUS_POSTED      JobStatus = 1
	JOB_STATUS_CLAIMED     JobStatus = 2
	JOB_STATUS_COMPLETED   JobStatus = 3
)

func (s JobStatus) String() string {
	switch s {
	case JOB_STATUS_POSTED:
		return "posted"
	case JOB_STATUS_CLAIMED:
		return "claimed"
	case JOB_STATUS_COMPLETED:
		return "completed"
	default:
		return "unspecified"
	}
}

// Job is a compute job posted by a renter. Jobs are append-only ledger
// entries: they are never deleted, a failed claim resets them to Posted.
type Job struct {
	Id           uint64     `json:"id"`
	Renter       string     `json:"renter"`
	Host         string     `json:"host,omitempty"`
	ModelId      string     `json:"model_id"`
	InputRef     string     `json:"input_ref"`
	ResultRef    string     `json:"result_ref,omitempty"`
	MaxPrice     math.Int   `json:"max_price"`
	PaymentDenom string     `json:"payment_denom"`
	Deadline     time.Time  `json:"deadline"`
	Status       JobStatus  `json:"status"`
	EscrowId     uint64     `json:"escrow_id"`
	CreatedAt    time.Time  `json:"created_at"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// EscrowStatus tracks escrowed funds. Released, Resolved and Refunded are
// terminal; no mutation is possible once an escrow reaches one of them.
type EscrowStatus int32

const (
	ESCROW_STATUS_UNSPECIFIED EscrowStatus = 0
	ESCROW_STATUS_ACTIVE      EscrowStatus = 1
	ESCROW_STATUS_RELEASED    EscrowStatus = 2
	ESCROW_STATUS_DISPUTED    EscrowStatus = 3
	ESCROW_STATUS_RESOLVED    EscrowStatus = 4
	ESCROW_STATUS_REFUNDED    EscrowStatus = 5
)

func (s EscrowStatus) String() string {
	switch s {
	case ESCROW_STATUS_ACTIVE:
		return "active"
	case ESCROW_STATUS_RELEASED:
		return "released"
	case ESCROW_STATUS_DISPUTED:
		return "disputed"
	case ESCROW_STATUS_RESOLVED:
		return "resolved"
	case ESCROW_STATUS_REFUNDED:
		return "refunded"
	default:
		return "unspecified"
	}
}

// IsTerminal reports whether the escrow can no longer be mutated.
func (s EscrowStatus) IsTerminal() bool {
	return s == ESCROW_STATUS_RELEASED || s == ESCROW_STATUS_RESOLVED || s == ESCROW_STATUS_REFUNDED
}

// Escrow holds a job's payment until release, dispute resolution or refund.
// One escrow per job, funded atomically with job creation.
type Escrow struct {
	Id              uint64       `json:"id"`
	JobId           uint64       `json:"job_id"`
	Renter          string       `json:"renter"`
	Host            string       `json:"host,omitempty"`
	Amount          math.Int     `json:"amount"`
	Denom           string       `json:"denom"`
	Status          EscrowStatus `json:"status"`
	RefundRequested bool         `json:"refund_requested"`
	CreatedAt       time.Time    `json:"created_at"`
	ClosedAt        *time.Time   `json:"closed_at,omitempty"`
}

// ProofStatus tracks an execution proof. Verified and Invalid are terminal,
// except that a successful challenge flips Verified to Invalid.
type ProofStatus int32

const (
	PROOF_STATUS_NONE      ProofStatus = 0
	PROOF_STATUS_SUBMITTED ProofStatus = 1
	PROOF_STATUS_VERIFIED  ProofStatus = 2
	PROOF_STATUS_INVALID   ProofStatus = 3
)

func (s ProofStatus) String() string {
	switch s {
	case PROOF_STATUS_SUBMITTED:
		return "submitted"
	case PROOF_STATUS_VERIFIED:
		return "verified"
	case PROOF_STATUS_INVALID:
		return "invalid"
	default:
		return "none"
	}
}

// ProofRecord is the single proof-of-execution record for a job.
type ProofRecord struct {
	JobId       uint64      `json:"job_id"`
	Prover      string      `json:"prover"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Status      ProofStatus `json:"status"`
	ProofHash   string      `json:"proof_hash"`
	Payload     []byte      `json:"payload"`
}

// ChallengeStatus tracks a bonded challenge against a verified proof.
type ChallengeStatus int32

const (
	CHALLENGE_STATUS_UNSPECIFIED ChallengeStatus = 0
	CHALLENGE_STATUS_PENDING     ChallengeStatus = 1
	CHALLENGE_STATUS_SUCCESSFUL  ChallengeStatus = 2
	CHALLENGE_STATUS_FAILED      ChallengeStatus = 3
)

func (s ChallengeStatus) String() string {
	switch s {
	case CHALLENGE_STATUS_PENDING:
		return "pending"
	case CHALLENGE_STATUS_SUCCESSFUL:
		return "successful"
	case CHALLENGE_STATUS_FAILED:
		return "failed"
	default:
		return "unspecified"
	}
}

// Challenge is a staked dispute against a verified proof. If nobody resolves
// it before the deadline it expires as Failed, so a challenge can delay but
// never permanently block settlement.
type Challenge struct {
	Id           uint64          `json:"id"`
	JobId        uint64          `json:"job_id"`
	Challenger   string          `json:"challenger"`
	Stake        math.Int        `json:"stake"`
	EvidenceHash string          `json:"evidence_hash"`
	Status       ChallengeStatus `json:"status"`
	Deadline     time.Time       `json:"deadline"`
	CreatedAt    time.Time       `json:"created_at"`
}

// HostReputation is a host's decaying trust score plus rating aggregates.
// Decay is applied lazily at read time, never by a background task.
// Per-job rated flags live in a separate composite-key table.
type HostReputation struct {
	Host             string    `json:"host"`
	Score            uint64    `json:"score"`
	TotalRatings     uint64    `json:"total_ratings"`
	RatingSum        uint64    `json:"rating_sum"`
	LastActivityTime time.Time `json:"last_activity_time"`
}

// StakerPosition is a staker's position in the reward pool. Per-token reward
// debt lives in a separate composite-key table.
type StakerPosition struct {
	Staker string   `json:"staker"`
	Amount math.Int `json:"amount"`
}

// RewardTokenState is the per-token reward-per-share accumulator.
// AccPerShare is scaled by RewardScale (1e18).
type RewardTokenState struct {
	Denom            string   `json:"denom"`
	AccPerShare      math.Int `json:"acc_per_share"`
	TotalDistributed math.Int `json:"total_distributed"`
	TotalClaimed     math.Int `json:"total_claimed"`
}

// PaymentBreakdown is the three-way division of a gross payment.
type PaymentBreakdown struct {
	HostAmount     math.Int `json:"host_amount"`
	ProtocolAmount math.Int `json:"protocol_amount"`
	StakerAmount   math.Int `json:"staker_amount"`
}

// BatchVerifyResult is the per-item outcome of a batch proof verification.
type BatchVerifyResult struct {
	JobId    uint64 `json:"job_id"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

// RewardScale is the fixed-point scale for the reward-per-share accumulator.
func RewardScale() math.Int {
	return math.NewIntWithDecimal(1, 18)
}

// BpsDenominator is the divisor for basis-point fee math.
const BpsDenominator = 10000

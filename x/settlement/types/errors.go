package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Settlement module sentinel errors, grouped by failure class. Every error is
// synchronous and operation-scoped: a failed call leaves shared state untouched.

var (
	// Validation errors
	ErrInvalidAmount      = sdkerrors.Register(ModuleName, 2, "amount must be positive")
	ErrInvalidDeadline    = sdkerrors.Register(ModuleName, 3, "deadline must be in the future")
	ErrInvalidRating      = sdkerrors.Register(ModuleName, 4, "rating must be between 1 and 5")
	ErrEmptyReference     = sdkerrors.Register(ModuleName, 5, "reference must not be empty")
	ErrInvalidProof       = sdkerrors.Register(ModuleName, 6, "invalid proof")
	ErrInvalidAddress     = sdkerrors.Register(ModuleName, 7, "invalid address")
	ErrBatchTooLarge      = sdkerrors.Register(ModuleName, 8, "batch exceeds maximum size")
	ErrBatchLengthMismatch = sdkerrors.Register(ModuleName, 9, "batch arrays must have equal length")

	// Authorization errors
	ErrUnauthorized    = sdkerrors.Register(ModuleName, 20, "unauthorized")
	ErrNotAssignedHost = sdkerrors.Register(ModuleName, 21, "caller is not the assigned host")
	ErrNotRenter       = sdkerrors.Register(ModuleName, 22, "caller is not the job's renter")
	ErrNotArbiter      = sdkerrors.Register(ModuleName, 23, "caller is not the arbiter")

	// State errors
	ErrJobNotFound          = sdkerrors.Register(ModuleName, 30, "job not found")
	ErrJobNotClaimable      = sdkerrors.Register(ModuleName, 31, "job is not claimable")
	ErrWrongJobState        = sdkerrors.Register(ModuleName, 32, "operation not valid for job state")
	ErrEscrowNotFound       = sdkerrors.Register(ModuleName, 33, "escrow not found")
	ErrEscrowNotActive      = sdkerrors.Register(ModuleName, 34, "escrow is not active")
	ErrEscrowNotDisputed    = sdkerrors.Register(ModuleName, 35, "escrow is not disputed")
	ErrEscrowTerminal       = sdkerrors.Register(ModuleName, 36, "escrow is in a terminal state")
	ErrProofNotFound        = sdkerrors.Register(ModuleName, 37, "proof not found")
	ErrProofAlreadySubmitted = sdkerrors.Register(ModuleName, 38, "proof already submitted")
	ErrProofNotSubmitted    = sdkerrors.Register(ModuleName, 39, "proof is not awaiting verification")
	ErrProofNotVerified     = sdkerrors.Register(ModuleName, 40, "proof has not been verified")
	ErrChallengeNotFound    = sdkerrors.Register(ModuleName, 41, "challenge not found")
	ErrChallengeNotPending  = sdkerrors.Register(ModuleName, 42, "challenge is not pending")
	ErrAlreadyRated         = sdkerrors.Register(ModuleName, 43, "job already rated")
	ErrRefundNotRequested   = sdkerrors.Register(ModuleName, 44, "no refund has been requested")
	ErrReputationNotFound   = sdkerrors.Register(ModuleName, 45, "host has no reputation record")

	// Timing errors
	ErrDeadlineExpired = sdkerrors.Register(ModuleName, 60, "deadline has expired")
	ErrChallengeActive = sdkerrors.Register(ModuleName, 61, "challenge period is still active")
	ErrChallengeExpired = sdkerrors.Register(ModuleName, 62, "challenge deadline has passed")

	// Funds errors
	ErrInsufficientFunds = sdkerrors.Register(ModuleName, 80, "insufficient funds")
	ErrInsufficientStake = sdkerrors.Register(ModuleName, 81, "stake below minimum")
	ErrHostNotEligible   = sdkerrors.Register(ModuleName, 82, "host is not active or lacks collateral")
	ErrNoStake           = sdkerrors.Register(ModuleName, 83, "no stake in the pool")
	ErrNothingToClaim    = sdkerrors.Register(ModuleName, 84, "no pending rewards to claim")
	ErrTransferFailed    = sdkerrors.Register(ModuleName, 85, "value transfer failed")
)

package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type URLs
const (
	TypeMsgCreateJob          = "create_job"
	TypeMsgClaimJob           = "claim_job"
	TypeMsgSubmitProof        = "submit_proof"
	TypeMsgVerifyProof        = "verify_proof"
	TypeMsgBatchVerifyProofs  = "batch_verify_proofs"
	TypeMsgCompleteJob        = "complete_job"
	TypeMsgFailJob            = "fail_job"
	TypeMsgChallengeProof     = "challenge_proof"
	TypeMsgResolveChallenge   = "resolve_challenge"
	TypeMsgExpireChallenge    = "expire_challenge"
	TypeMsgReleaseEscrow      = "release_escrow"
	TypeMsgDisputeEscrow      = "dispute_escrow"
	TypeMsgResolveDispute     = "resolve_dispute"
	TypeMsgRequestRefund      = "request_refund"
	TypeMsgConfirmRefund      = "confirm_refund"
	TypeMsgRateHost           = "rate_host"
	TypeMsgSlashReputation    = "slash_reputation"
	TypeMsgUpdateStake        = "update_stake"
	TypeMsgDistributeRewards  = "distribute_rewards"
	TypeMsgClaimReward        = "claim_reward"
	TypeMsgClaimAllRewards    = "claim_all_rewards"
	TypeMsgCompoundRewards    = "compound_rewards"
	TypeMsgEmergencyWithdraw  = "emergency_withdraw"
	TypeMsgUpdateParams       = "update_params"
)

var (
	_ sdk.Msg = &MsgCreateJob{}
	_ sdk.Msg = &MsgClaimJob{}
	_ sdk.Msg = &MsgSubmitProof{}
	_ sdk.Msg = &MsgVerifyProof{}
	_ sdk.Msg = &MsgBatchVerifyProofs{}
	_ sdk.Msg = &MsgCompleteJob{}
	_ sdk.Msg = &MsgFailJob{}
	_ sdk.Msg = &MsgChallengeProof{}
	_ sdk.Msg = &MsgResolveChallenge{}
	_ sdk.Msg = &MsgExpireChallenge{}
	_ sdk.Msg = &MsgReleaseEscrow{}
	_ sdk.Msg = &MsgDisputeEscrow{}
	_ sdk.Msg = &MsgResolveDispute{}
	_ sdk.Msg = &MsgRequestRefund{}
	_ sdk.Msg = &MsgConfirmRefund{}
	_ sdk.Msg = &MsgRateHost{}
	_ sdk.Msg = &MsgSlashReputation{}
	_ sdk.Msg = &MsgUpdateStake{}
	_ sdk.Msg = &MsgDistributeRewards{}
	_ sdk.Msg = &MsgClaimReward{}
	_ sdk.Msg = &MsgClaimAllRewards{}
	_ sdk.Msg = &MsgCompoundRewards{}
	_ sdk.Msg = &MsgEmergencyWithdraw{}
	_ sdk.Msg = &MsgUpdateParams{}
)

// GetSigners implementations - these assume addresses are valid (validated in ValidateBasic)

// GetSigners returns the expected signers for MsgCreateJob
func (msg *MsgCreateJob) GetSigners() []sdk.AccAddress {
	renter, _ := sdk.AccAddressFromBech32(msg.Renter)
	return []sdk.AccAddress{renter}
}

// GetSigners returns the expected signers for MsgClaimJob
func (msg *MsgClaimJob) GetSigners() []sdk.AccAddress {
	host, _ := sdk.AccAddressFromBech32(msg.Host)
	return []sdk.AccAddress{host}
}

// GetSigners returns the expected signers for MsgSubmitProof
func (msg *MsgSubmitProof) GetSigners() []sdk.AccAddress {
	prover, _ := sdk.AccAddressFromBech32(msg.Prover)
	return []sdk.AccAddress{prover}
}

// GetSigners returns the expected signers for MsgVerifyProof
func (msg *MsgVerifyProof) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgBatchVerifyProofs
func (msg *MsgBatchVerifyProofs) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgCompleteJob
func (msg *MsgCompleteJob) GetSigners() []sdk.AccAddress {
	host, _ := sdk.AccAddressFromBech32(msg.Host)
	return []sdk.AccAddress{host}
}

// GetSigners returns the expected signers for MsgFailJob
func (msg *MsgFailJob) GetSigners() []sdk.AccAddress {
	actor, _ := sdk.AccAddressFromBech32(msg.Actor)
	return []sdk.AccAddress{actor}
}

// GetSigners returns the expected signers for MsgChallengeProof
func (msg *MsgChallengeProof) GetSigners() []sdk.AccAddress {
	challenger, _ := sdk.AccAddressFromBech32(msg.Challenger)
	return []sdk.AccAddress{challenger}
}

// GetSigners returns the expected signers for MsgResolveChallenge
func (msg *MsgResolveChallenge) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgExpireChallenge
func (msg *MsgExpireChallenge) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{caller}
}

// GetSigners returns the expected signers for MsgReleaseEscrow
func (msg *MsgReleaseEscrow) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{caller}
}

// GetSigners returns the expected signers for MsgDisputeEscrow
func (msg *MsgDisputeEscrow) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{caller}
}

// GetSigners returns the expected signers for MsgResolveDispute
func (msg *MsgResolveDispute) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgRequestRefund
func (msg *MsgRequestRefund) GetSigners() []sdk.AccAddress {
	host, _ := sdk.AccAddressFromBech32(msg.Host)
	return []sdk.AccAddress{host}
}

// GetSigners returns the expected signers for MsgConfirmRefund
func (msg *MsgConfirmRefund) GetSigners() []sdk.AccAddress {
	renter, _ := sdk.AccAddressFromBech32(msg.Renter)
	return []sdk.AccAddress{renter}
}

// GetSigners returns the expected signers for MsgRateHost
func (msg *MsgRateHost) GetSigners() []sdk.AccAddress {
	renter, _ := sdk.AccAddressFromBech32(msg.Renter)
	return []sdk.AccAddress{renter}
}

// GetSigners returns the expected signers for MsgSlashReputation
func (msg *MsgSlashReputation) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgUpdateStake
func (msg *MsgUpdateStake) GetSigners() []sdk.AccAddress {
	staker, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{staker}
}

// GetSigners returns the expected signers for MsgDistributeRewards
func (msg *MsgDistributeRewards) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// GetSigners returns the expected signers for MsgClaimReward
func (msg *MsgClaimReward) GetSigners() []sdk.AccAddress {
	staker, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{staker}
}

// GetSigners returns the expected signers for MsgClaimAllRewards
func (msg *MsgClaimAllRewards) GetSigners() []sdk.AccAddress {
	staker, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{staker}
}

// GetSigners returns the expected signers for MsgCompoundRewards
func (msg *MsgCompoundRewards) GetSigners() []sdk.AccAddress {
	staker, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{staker}
}

// GetSigners returns the expected signers for MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) GetSigners() []sdk.AccAddress {
	staker, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{staker}
}

// GetSigners returns the expected signers for MsgUpdateParams
func (msg *MsgUpdateParams) GetSigners() []sdk.AccAddress {
	auth, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{auth}
}

// ValidateBasic performs basic validation of MsgCreateJob
func (msg *MsgCreateJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Renter); err != nil {
		return fmt.Errorf("invalid renter address: %w", err)
	}

	if msg.ModelId == "" {
		return fmt.Errorf("model ID is required")
	}

	if msg.InputRef == "" {
		return fmt.Errorf("input reference is required")
	}

	if msg.MaxPrice.IsNil() || !msg.MaxPrice.IsPositive() {
		return fmt.Errorf("max price must be positive")
	}

	if msg.Payment.IsNil() || !msg.Payment.IsPositive() {
		return fmt.Errorf("payment must be positive")
	}

	if err := sdk.ValidateDenom(msg.PaymentDenom); err != nil {
		return fmt.Errorf("invalid payment denom: %w", err)
	}

	if msg.DeadlineSeconds == 0 {
		return fmt.Errorf("deadline must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgClaimJob
func (msg *MsgClaimJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return fmt.Errorf("invalid host address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgSubmitProof
func (msg *MsgSubmitProof) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Prover); err != nil {
		return fmt.Errorf("invalid prover address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	if len(msg.Payload) == 0 {
		return fmt.Errorf("proof payload is required")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgVerifyProof
func (msg *MsgVerifyProof) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgBatchVerifyProofs
func (msg *MsgBatchVerifyProofs) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if len(msg.JobIds) == 0 {
		return fmt.Errorf("at least one job ID is required")
	}

	for i, id := range msg.JobIds {
		if id == 0 {
			return fmt.Errorf("job ID at index %d must be greater than 0", i)
		}
	}

	return nil
}

// ValidateBasic performs basic validation of MsgCompleteJob
func (msg *MsgCompleteJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return fmt.Errorf("invalid host address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	if msg.ResultRef == "" {
		return fmt.Errorf("result reference is required")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgFailJob
func (msg *MsgFailJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Actor); err != nil {
		return fmt.Errorf("invalid actor address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgChallengeProof
func (msg *MsgChallengeProof) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Challenger); err != nil {
		return fmt.Errorf("invalid challenger address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	if msg.EvidenceHash == "" {
		return fmt.Errorf("evidence hash is required")
	}

	if msg.Stake.IsNil() || !msg.Stake.IsPositive() {
		return fmt.Errorf("stake must be positive")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgResolveChallenge
func (msg *MsgResolveChallenge) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if msg.ChallengeId == 0 {
		return fmt.Errorf("challenge ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgExpireChallenge
func (msg *MsgExpireChallenge) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	if msg.ChallengeId == 0 {
		return fmt.Errorf("challenge ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgReleaseEscrow
func (msg *MsgReleaseEscrow) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	if msg.EscrowId == 0 {
		return fmt.Errorf("escrow ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgDisputeEscrow
func (msg *MsgDisputeEscrow) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	if msg.EscrowId == 0 {
		return fmt.Errorf("escrow ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgResolveDispute
func (msg *MsgResolveDispute) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if msg.EscrowId == 0 {
		return fmt.Errorf("escrow ID must be greater than 0")
	}

	if _, err := sdk.AccAddressFromBech32(msg.Winner); err != nil {
		return fmt.Errorf("invalid winner address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgRequestRefund
func (msg *MsgRequestRefund) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return fmt.Errorf("invalid host address: %w", err)
	}

	if msg.EscrowId == 0 {
		return fmt.Errorf("escrow ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgConfirmRefund
func (msg *MsgConfirmRefund) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Renter); err != nil {
		return fmt.Errorf("invalid renter address: %w", err)
	}

	if msg.EscrowId == 0 {
		return fmt.Errorf("escrow ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgRateHost
func (msg *MsgRateHost) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Renter); err != nil {
		return fmt.Errorf("invalid renter address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	if msg.Rating < 1 || msg.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgSlashReputation
func (msg *MsgSlashReputation) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return fmt.Errorf("invalid host address: %w", err)
	}

	if msg.Percentage == 0 || msg.Percentage > 100 {
		return fmt.Errorf("percentage must be between 1 and 100")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgUpdateStake
func (msg *MsgUpdateStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return fmt.Errorf("invalid staker address: %w", err)
	}

	if msg.NewAmount.IsNil() || msg.NewAmount.IsNegative() {
		return fmt.Errorf("new amount must not be negative")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgDistributeRewards
func (msg *MsgDistributeRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return fmt.Errorf("invalid reward denom: %w", err)
	}

	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgClaimReward
func (msg *MsgClaimReward) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return fmt.Errorf("invalid staker address: %w", err)
	}

	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return fmt.Errorf("invalid reward denom: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgClaimAllRewards
func (msg *MsgClaimAllRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return fmt.Errorf("invalid staker address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgCompoundRewards
func (msg *MsgCompoundRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return fmt.Errorf("invalid staker address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return fmt.Errorf("invalid staker address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgUpdateParams
func (msg *MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	return msg.Params.Validate()
}

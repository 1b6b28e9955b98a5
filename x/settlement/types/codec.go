package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the necessary x/settlement concrete types
// on the provided LegacyAmino codec. The same codec also marshals the module's
// state records, which are plain structs.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateJob{}, "grid/settlement/MsgCreateJob", nil)
	cdc.RegisterConcrete(&MsgClaimJob{}, "grid/settlement/MsgClaimJob", nil)
	cdc.RegisterConcrete(&MsgSubmitProof{}, "grid/settlement/MsgSubmitProof", nil)
	cdc.RegisterConcrete(&MsgVerifyProof{}, "grid/settlement/MsgVerifyProof", nil)
	cdc.RegisterConcrete(&MsgBatchVerifyProofs{}, "grid/settlement/MsgBatchVerifyProofs", nil)
	cdc.RegisterConcrete(&MsgCompleteJob{}, "grid/settlement/MsgCompleteJob", nil)
	cdc.RegisterConcrete(&MsgFailJob{}, "grid/settlement/MsgFailJob", nil)
	cdc.RegisterConcrete(&MsgChallengeProof{}, "grid/settlement/MsgChallengeProof", nil)
	cdc.RegisterConcrete(&MsgResolveChallenge{}, "grid/settlement/MsgResolveChallenge", nil)
	cdc.RegisterConcrete(&MsgExpireChallenge{}, "grid/settlement/MsgExpireChallenge", nil)
	cdc.RegisterConcrete(&MsgReleaseEscrow{}, "grid/settlement/MsgReleaseEscrow", nil)
	cdc.RegisterConcrete(&MsgDisputeEscrow{}, "grid/settlement/MsgDisputeEscrow", nil)
	cdc.RegisterConcrete(&MsgResolveDispute{}, "grid/settlement/MsgResolveDispute", nil)
	cdc.RegisterConcrete(&MsgRequestRefund{}, "grid/settlement/MsgRequestRefund", nil)
	cdc.RegisterConcrete(&MsgConfirmRefund{}, "grid/settlement/MsgConfirmRefund", nil)
	cdc.RegisterConcrete(&MsgRateHost{}, "grid/settlement/MsgRateHost", nil)
	cdc.RegisterConcrete(&MsgSlashReputation{}, "grid/settlement/MsgSlashReputation", nil)
	cdc.RegisterConcrete(&MsgUpdateStake{}, "grid/settlement/MsgUpdateStake", nil)
	cdc.RegisterConcrete(&MsgDistributeRewards{}, "grid/settlement/MsgDistributeRewards", nil)
	cdc.RegisterConcrete(&MsgClaimReward{}, "grid/settlement/MsgClaimReward", nil)
	cdc.RegisterConcrete(&MsgClaimAllRewards{}, "grid/settlement/MsgClaimAllRewards", nil)
	cdc.RegisterConcrete(&MsgCompoundRewards{}, "grid/settlement/MsgCompoundRewards", nil)
	cdc.RegisterConcrete(&MsgEmergencyWithdraw{}, "grid/settlement/MsgEmergencyWithdraw", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "grid/settlement/MsgUpdateParams", nil)
}

var (
	amino = codec.NewLegacyAmino()

	// ModuleCdc marshals the module's state records and messages.
	ModuleCdc = amino
)

func init() {
	RegisterLegacyAminoCodec(amino)
}

package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/hashgrid/grid/x/settlement/types"
)

func testAddr(seed string) string {
	padded := make([]byte, 20)
	copy(padded, seed)
	return sdk.AccAddress(padded).String()
}

func validCreateJob() *types.MsgCreateJob {
	return &types.MsgCreateJob{
		Renter:          testAddr("renter"),
		ModelId:         "model-7b",
		InputRef:        "ipfs://input",
		MaxPrice:        math.NewInt(100),
		Payment:         math.NewInt(100),
		PaymentDenom:    "ugrid",
		DeadlineSeconds: 3600,
	}
}

func TestMsgCreateJobValidateBasic(t *testing.T) {
	require.NoError(t, validCreateJob().ValidateBasic())

	tests := []struct {
		name   string
		mutate func(*types.MsgCreateJob)
	}{
		{"bad renter", func(m *types.MsgCreateJob) { m.Renter = "not-bech32" }},
		{"empty model", func(m *types.MsgCreateJob) { m.ModelId = "" }},
		{"empty input ref", func(m *types.MsgCreateJob) { m.InputRef = "" }},
		{"nil max price", func(m *types.MsgCreateJob) { m.MaxPrice = math.Int{} }},
		{"zero max price", func(m *types.MsgCreateJob) { m.MaxPrice = math.ZeroInt() }},
		{"zero payment", func(m *types.MsgCreateJob) { m.Payment = math.ZeroInt() }},
		{"bad denom", func(m *types.MsgCreateJob) { m.PaymentDenom = "!" }},
		{"zero deadline", func(m *types.MsgCreateJob) { m.DeadlineSeconds = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := validCreateJob()
			tc.mutate(msg)
			require.Error(t, msg.ValidateBasic())
		})
	}
}

func TestMsgChallengeProofValidateBasic(t *testing.T) {
	valid := func() *types.MsgChallengeProof {
		return &types.MsgChallengeProof{
			Challenger:   testAddr("challenger"),
			JobId:        1,
			EvidenceHash: "sha256:evidence",
			Stake:        math.NewInt(1000000),
		}
	}
	require.NoError(t, valid().ValidateBasic())

	msg := valid()
	msg.JobId = 0
	require.Error(t, msg.ValidateBasic())

	msg = valid()
	msg.EvidenceHash = ""
	require.Error(t, msg.ValidateBasic())

	msg = valid()
	msg.Stake = math.ZeroInt()
	require.Error(t, msg.ValidateBasic())

	msg = valid()
	msg.Challenger = "not-bech32"
	require.Error(t, msg.ValidateBasic())
}

func TestMsgBatchVerifyProofsValidateBasic(t *testing.T) {
	msg := &types.MsgBatchVerifyProofs{Authority: testAddr("authority"), JobIds: []uint64{1, 2}}
	require.NoError(t, msg.ValidateBasic())

	msg.JobIds = nil
	require.Error(t, msg.ValidateBasic())

	msg.JobIds = []uint64{1, 0}
	require.Error(t, msg.ValidateBasic())
}

func TestMsgGetSigners(t *testing.T) {
	renter := testAddr("renter")
	msg := validCreateJob()
	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, renter, signers[0].String())

	claim := &types.MsgClaimJob{Host: testAddr("host1"), JobId: 1}
	require.Equal(t, testAddr("host1"), claim.GetSigners()[0].String())
}

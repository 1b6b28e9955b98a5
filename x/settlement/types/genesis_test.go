package types_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/hashgrid/grid/x/settlement/types"
)

func TestDefaultGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())
}

func TestGenesisValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	renter := testAddr("renter")
	host := testAddr("host1")

	job := func(id uint64) types.Job {
		return types.Job{
			Id:           id,
			Renter:       renter,
			ModelId:      "model-7b",
			InputRef:     "ipfs://input",
			MaxPrice:     math.NewInt(100),
			PaymentDenom: "ugrid",
			Deadline:     now.Add(time.Hour),
			Status:       types.JOB_STATUS_POSTED,
			EscrowId:     id,
			CreatedAt:    now,
		}
	}

	tests := []struct {
		name   string
		mutate func(*types.GenesisState)
		ok     bool
	}{
		{"populated valid", func(gs *types.GenesisState) {
			gs.Jobs = []types.Job{job(1)}
			gs.NextJobId = 2
			gs.Escrows = []types.Escrow{{
				Id: 1, JobId: 1, Renter: renter, Amount: math.NewInt(100),
				Denom: "ugrid", Status: types.ESCROW_STATUS_ACTIVE, CreatedAt: now,
			}}
			gs.NextEscrowId = 2
		}, true},
		{"job beyond counter", func(gs *types.GenesisState) {
			gs.Jobs = []types.Job{job(5)}
			gs.NextJobId = 2
		}, false},
		{"duplicate job", func(gs *types.GenesisState) {
			gs.Jobs = []types.Job{job(1), job(1)}
			gs.NextJobId = 3
		}, false},
		{"claimed without host", func(gs *types.GenesisState) {
			j := job(1)
			j.Status = types.JOB_STATUS_CLAIMED
			gs.Jobs = []types.Job{j}
			gs.NextJobId = 2
		}, false},
		{"proof for unknown job", func(gs *types.GenesisState) {
			gs.Proofs = []types.ProofRecord{{JobId: 9, Prover: host, Status: types.PROOF_STATUS_SUBMITTED}}
		}, false},
		{"zero escrow amount", func(gs *types.GenesisState) {
			gs.Escrows = []types.Escrow{{Id: 1, JobId: 1, Renter: renter, Amount: math.ZeroInt(), Denom: "ugrid"}}
			gs.NextEscrowId = 2
		}, false},
		{"total staked mismatch", func(gs *types.GenesisState) {
			gs.Stakers = []types.StakerPosition{{Staker: testAddr("staker1"), Amount: math.NewInt(1000000)}}
			gs.TotalStaked = math.NewInt(5)
		}, false},
		{"debt for unknown staker", func(gs *types.GenesisState) {
			gs.RewardDebts = []types.RewardDebtEntry{{Staker: testAddr("staker1"), Denom: "ugrid", Debt: math.ZeroInt()}}
		}, false},
		{"claimed exceeds distributed", func(gs *types.GenesisState) {
			gs.RewardTokens = []types.RewardTokenState{{
				Denom: "ugrid", AccPerShare: math.ZeroInt(),
				TotalDistributed: math.NewInt(10), TotalClaimed: math.NewInt(20),
			}}
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.DefaultGenesis()
			tc.mutate(gs)
			err := gs.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

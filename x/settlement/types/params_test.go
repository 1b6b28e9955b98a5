package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/hashgrid/grid/x/settlement/types"
)

func TestDefaultParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.Params)
	}{
		{"release fee above cap", func(p *types.Params) { p.FeeBps = p.MaxCombinedFeeBps + 1 }},
		{"split fees above cap", func(p *types.Params) { p.ProtocolFeeBps = p.MaxCombinedFeeBps }},
		{"cap above denominator", func(p *types.Params) { p.MaxCombinedFeeBps = types.BpsDenominator + 1 }},
		{"nil challenge stake", func(p *types.Params) { p.MinChallengeStake = math.Int{} }},
		{"zero challenge stake", func(p *types.Params) { p.MinChallengeStake = math.ZeroInt() }},
		{"zero challenge period", func(p *types.Params) { p.ChallengePeriodSeconds = 0 }},
		{"zero batch verify", func(p *types.Params) { p.MaxBatchVerify = 0 }},
		{"zero batch split", func(p *types.Params) { p.MaxBatchSplit = 0 }},
		{"zero proof size", func(p *types.Params) { p.MaxProofSize = 0 }},
		{"zero decay period", func(p *types.Params) { p.DecayPeriodSeconds = 0 }},
		{"decay rate above denominator", func(p *types.Params) { p.DecayRateBps = types.BpsDenominator + 1 }},
		{"zero minimum stake", func(p *types.Params) { p.MinimumStake = math.ZeroInt() }},
		{"empty stake denom", func(p *types.Params) { p.StakeDenom = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := types.DefaultParams()
			tc.mutate(&params)
			require.Error(t, params.Validate())
		})
	}
}

package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

const rewardDenom = "uatom"

// distribute funds the stranger account and pushes a reward into the pool.
func distribute(t *testing.T, f *testkeeper.Fixture, denom string, amount int64) {
	t.Helper()
	f.FundAccount(t, strangerAddr, math.NewInt(amount), denom)
	require.NoError(t, f.Keeper.DistributeRewards(f.Ctx, strangerAddr, denom, math.NewInt(amount)))
}

func TestUpdateStake(t *testing.T) {
	f := testkeeper.NewFixture(t)

	err := f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(999999))
	require.ErrorIs(t, err, types.ErrInsufficientStake)
	err = f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(-1))
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// Unfunded staker cannot lock the delta.
	err = f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(1000000))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	_, found := f.Keeper.GetStakerPosition(f.Ctx, stakerAddr)
	require.False(t, found)

	stakeInto(t, f, stakerAddr, 1000000)
	require.True(t, f.Balance(stakerAddr, testDenom).IsZero())
	require.Equal(t, math.NewInt(1000000), f.Keeper.GetTotalStaked(f.Ctx))

	position, found := f.Keeper.GetStakerPosition(f.Ctx, stakerAddr)
	require.True(t, found)
	require.Equal(t, math.NewInt(1000000), position.Amount)

	// Increase locks only the delta.
	f.FundAccount(t, stakerAddr, math.NewInt(2000000), testDenom)
	require.NoError(t, f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(3000000)))
	require.True(t, f.Balance(stakerAddr, testDenom).IsZero())
	require.Equal(t, math.NewInt(3000000), f.Keeper.GetTotalStaked(f.Ctx))

	// Decrease returns the delta.
	require.NoError(t, f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(1000000)))
	require.Equal(t, math.NewInt(2000000), f.Balance(stakerAddr, testDenom))

	// Zero fully exits the position.
	require.NoError(t, f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.ZeroInt()))
	require.Equal(t, math.NewInt(3000000), f.Balance(stakerAddr, testDenom))
	require.True(t, f.Keeper.GetTotalStaked(f.Ctx).IsZero())
	_, found = f.Keeper.GetStakerPosition(f.Ctx, stakerAddr)
	require.False(t, found)
}

func TestRewardDistributionProRata(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	stakeInto(t, f, staker2Addr, 3000000)

	distribute(t, f, testDenom, 40000)

	require.Equal(t, math.NewInt(10000), f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom))
	require.Equal(t, math.NewInt(30000), f.Keeper.PendingReward(f.Ctx, staker2Addr, testDenom))

	claimed, err := f.Keeper.ClaimReward(f.Ctx, stakerAddr, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10000), claimed)
	require.Equal(t, math.NewInt(10000), f.Balance(stakerAddr, testDenom))
	require.True(t, f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom).IsZero())

	_, err = f.Keeper.ClaimReward(f.Ctx, stakerAddr, testDenom)
	require.ErrorIs(t, err, types.ErrNothingToClaim)

	claimed, err = f.Keeper.ClaimReward(f.Ctx, staker2Addr, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(30000), claimed)

	token, found := f.Keeper.GetRewardToken(f.Ctx, testDenom)
	require.True(t, found)
	require.Equal(t, math.NewInt(40000), token.TotalDistributed)
	require.Equal(t, math.NewInt(40000), token.TotalClaimed)
}

func TestLateStakerEarnsNothingRetroactively(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 40000)

	stakeInto(t, f, staker2Addr, 3000000)

	require.Equal(t, math.NewInt(40000), f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom))
	require.True(t, f.Keeper.PendingReward(f.Ctx, staker2Addr, testDenom).IsZero())

	// The next inflow splits at the new weights.
	distribute(t, f, testDenom, 40000)
	require.Equal(t, math.NewInt(50000), f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom))
	require.Equal(t, math.NewInt(30000), f.Keeper.PendingReward(f.Ctx, staker2Addr, testDenom))
}

func TestDistributeRewardsValidation(t *testing.T) {
	f := testkeeper.NewFixture(t)

	err := f.Keeper.DistributeRewards(f.Ctx, strangerAddr, testDenom, math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrNoStake)

	stakeInto(t, f, stakerAddr, 1000000)
	err = f.Keeper.DistributeRewards(f.Ctx, strangerAddr, testDenom, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// Funder holds nothing.
	err = f.Keeper.DistributeRewards(f.Ctx, strangerAddr, testDenom, math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestStakeChangeSettlesPendingRewards(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 1000)

	// Growing the stake pays out the accrued reward first.
	f.FundAccount(t, stakerAddr, math.NewInt(1000000), testDenom)
	require.NoError(t, f.Keeper.UpdateStake(f.Ctx, stakerAddr, math.NewInt(2000000)))

	require.Equal(t, math.NewInt(1000), f.Balance(stakerAddr, testDenom))
	require.True(t, f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom).IsZero())
}

func TestClaimAllRewards(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 40000)
	distribute(t, f, rewardDenom, 7000)

	claimed, err := f.Keeper.ClaimAllRewards(f.Ctx, stakerAddr)
	require.NoError(t, err)
	require.Equal(t, sdk.NewCoins(
		sdk.NewCoin(testDenom, math.NewInt(40000)),
		sdk.NewCoin(rewardDenom, math.NewInt(7000)),
	), claimed)

	require.Equal(t, math.NewInt(40000), f.Balance(stakerAddr, testDenom))
	require.Equal(t, math.NewInt(7000), f.Balance(stakerAddr, rewardDenom))

	_, err = f.Keeper.ClaimAllRewards(f.Ctx, stakerAddr)
	require.ErrorIs(t, err, types.ErrNothingToClaim)

	_, err = f.Keeper.ClaimAllRewards(f.Ctx, strangerAddr)
	require.ErrorIs(t, err, types.ErrNoStake)
}

func TestCompoundRewards(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 50000)
	distribute(t, f, rewardDenom, 7000)

	compounded, err := f.Keeper.CompoundRewards(f.Ctx, stakerAddr)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(50000), compounded)

	// The stake denom folds into the position without leaving the module;
	// other denoms pay out.
	position, found := f.Keeper.GetStakerPosition(f.Ctx, stakerAddr)
	require.True(t, found)
	require.Equal(t, math.NewInt(1050000), position.Amount)
	require.Equal(t, math.NewInt(1050000), f.Keeper.GetTotalStaked(f.Ctx))
	require.True(t, f.Balance(stakerAddr, testDenom).IsZero())
	require.Equal(t, math.NewInt(7000), f.Balance(stakerAddr, rewardDenom))

	require.True(t, f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom).IsZero())

	token, found := f.Keeper.GetRewardToken(f.Ctx, testDenom)
	require.True(t, found)
	require.Equal(t, math.NewInt(50000), token.TotalClaimed)

	_, err = f.Keeper.CompoundRewards(f.Ctx, stakerAddr)
	require.ErrorIs(t, err, types.ErrNothingToClaim)
}

func TestEmergencyWithdraw(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	distribute(t, f, testDenom, 4000)

	returned, err := f.Keeper.EmergencyWithdraw(f.Ctx, stakerAddr)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1000000), returned)

	// Stake comes back, pending rewards are forfeited to the pool.
	require.Equal(t, math.NewInt(1000000), f.Balance(stakerAddr, testDenom))
	require.Equal(t, math.NewInt(4000), f.ModuleBalance(testDenom))
	require.True(t, f.Keeper.GetTotalStaked(f.Ctx).IsZero())

	_, found := f.Keeper.GetStakerPosition(f.Ctx, stakerAddr)
	require.False(t, found)
	_, err = f.Keeper.ClaimReward(f.Ctx, stakerAddr, testDenom)
	require.ErrorIs(t, err, types.ErrNoStake)

	_, err = f.Keeper.EmergencyWithdraw(f.Ctx, stakerAddr)
	require.ErrorIs(t, err, types.ErrNoStake)
}

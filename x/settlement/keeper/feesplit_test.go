package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

// fundModule mints settlement funds straight into the module account, the
// position escrowed payments are in when a split runs.
func fundModule(t *testing.T, f *testkeeper.Fixture, amount math.Int) {
	t.Helper()
	coins := sdk.NewCoins(sdk.NewCoin(testDenom, amount))
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, types.ModuleName, coins))
}

// stakeInto funds a staker and locks the amount into the reward pool.
func stakeInto(t *testing.T, f *testkeeper.Fixture, staker sdk.AccAddress, amount int64) {
	t.Helper()
	f.FundAccount(t, staker, math.NewInt(amount), testDenom)
	require.NoError(t, f.Keeper.UpdateStake(f.Ctx, staker, math.NewInt(amount)))
}

func TestComputePaymentBreakdown(t *testing.T) {
	params := types.DefaultParams()

	b := keeper.ComputePaymentBreakdown(math.NewInt(100), params)
	require.Equal(t, math.NewInt(90), b.HostAmount)
	require.Equal(t, math.NewInt(6), b.ProtocolAmount)
	require.Equal(t, math.NewInt(4), b.StakerAmount)

	// Floor division on both cuts leaves the remainder with the host.
	b = keeper.ComputePaymentBreakdown(math.NewInt(101), params)
	require.Equal(t, math.NewInt(91), b.HostAmount)
	require.Equal(t, math.NewInt(6), b.ProtocolAmount)
	require.Equal(t, math.NewInt(4), b.StakerAmount)
	require.Equal(t, math.NewInt(101), b.HostAmount.Add(b.ProtocolAmount).Add(b.StakerAmount))

	b = keeper.ComputePaymentBreakdown(math.NewInt(1), params)
	require.Equal(t, math.NewInt(1), b.HostAmount)
	require.True(t, b.ProtocolAmount.IsZero())
	require.True(t, b.StakerAmount.IsZero())
}

func TestSplitPaymentNoStakers(t *testing.T) {
	f := testkeeper.NewFixture(t)
	fundModule(t, f, math.NewInt(10000))

	breakdown, err := f.Keeper.SplitPayment(f.Ctx, 1, math.NewInt(10000), hostAddr, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(9000), breakdown.HostAmount)
	require.Equal(t, math.NewInt(600), breakdown.ProtocolAmount)
	require.Equal(t, math.NewInt(400), breakdown.StakerAmount)

	// With nothing staked the staker share redirects to the fee collector.
	require.Equal(t, math.NewInt(9000), f.Balance(hostAddr, testDenom))
	require.Equal(t, math.NewInt(1000), f.TreasuryBalance(testDenom))
	require.True(t, f.ModuleBalance(testDenom).IsZero())
}

func TestSplitPaymentFundsRewardPool(t *testing.T) {
	f := testkeeper.NewFixture(t)
	stakeInto(t, f, stakerAddr, 1000000)
	fundModule(t, f, math.NewInt(10000))

	_, err := f.Keeper.SplitPayment(f.Ctx, 1, math.NewInt(10000), hostAddr, testDenom)
	require.NoError(t, err)

	require.Equal(t, math.NewInt(9000), f.Balance(hostAddr, testDenom))
	require.Equal(t, math.NewInt(600), f.TreasuryBalance(testDenom))

	// The staker share stays in the module account as pending rewards.
	require.Equal(t, math.NewInt(400), f.Keeper.PendingReward(f.Ctx, stakerAddr, testDenom))

	token, found := f.Keeper.GetRewardToken(f.Ctx, testDenom)
	require.True(t, found)
	require.Equal(t, math.NewInt(400), token.TotalDistributed)
}

func TestSplitPaymentValidation(t *testing.T) {
	f := testkeeper.NewFixture(t)

	_, err := f.Keeper.SplitPayment(f.Ctx, 1, math.ZeroInt(), hostAddr, testDenom)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// Module account is empty, so the host payout fails.
	_, err = f.Keeper.SplitPayment(f.Ctx, 1, math.NewInt(10000), hostAddr, testDenom)
	require.ErrorIs(t, err, types.ErrTransferFailed)
}

func TestBatchSplitPayments(t *testing.T) {
	f := testkeeper.NewFixture(t)
	fundModule(t, f, math.NewInt(30000))

	otherHost := testkeeper.Addr("host2")
	breakdowns, err := f.Keeper.BatchSplitPayments(f.Ctx,
		[]uint64{1, 2},
		[]math.Int{math.NewInt(10000), math.NewInt(20000)},
		[]sdk.AccAddress{hostAddr, otherHost},
		testDenom,
	)
	require.NoError(t, err)
	require.Len(t, breakdowns, 2)

	require.Equal(t, math.NewInt(9000), f.Balance(hostAddr, testDenom))
	require.Equal(t, math.NewInt(18000), f.Balance(otherHost, testDenom))
	require.Equal(t, math.NewInt(3000), f.TreasuryBalance(testDenom))
}

func TestBatchSplitPaymentsValidation(t *testing.T) {
	f := testkeeper.NewFixture(t)
	fundModule(t, f, math.NewInt(30000))

	_, err := f.Keeper.BatchSplitPayments(f.Ctx,
		[]uint64{1, 2},
		[]math.Int{math.NewInt(10000)},
		[]sdk.AccAddress{hostAddr, hostAddr},
		testDenom,
	)
	require.ErrorIs(t, err, types.ErrBatchLengthMismatch)

	oversize := int(types.DefaultParams().MaxBatchSplit) + 1
	ids := make([]uint64, oversize)
	amounts := make([]math.Int, oversize)
	hosts := make([]sdk.AccAddress, oversize)
	for i := range ids {
		ids[i] = uint64(i + 1)
		amounts[i] = math.NewInt(1)
		hosts[i] = hostAddr
	}
	_, err = f.Keeper.BatchSplitPayments(f.Ctx, ids, amounts, hosts, testDenom)
	require.ErrorIs(t, err, types.ErrBatchTooLarge)

	// A bad element rejects the whole batch before any transfer runs.
	_, err = f.Keeper.BatchSplitPayments(f.Ctx,
		[]uint64{1, 2},
		[]math.Int{math.NewInt(10000), math.ZeroInt()},
		[]sdk.AccAddress{hostAddr, hostAddr},
		testDenom,
	)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	require.True(t, f.Balance(hostAddr, testDenom).IsZero())
}

func TestGetPaymentBreakdown(t *testing.T) {
	f := testkeeper.NewFixture(t)

	b, err := f.Keeper.GetPaymentBreakdown(f.Ctx, math.NewInt(10000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(9000), b.HostAmount)

	b, err = f.Keeper.GetPaymentBreakdown(f.Ctx, math.ZeroInt())
	require.NoError(t, err)
	require.True(t, b.HostAmount.IsZero())

	_, err = f.Keeper.GetPaymentBreakdown(f.Ctx, math.NewInt(-1))
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

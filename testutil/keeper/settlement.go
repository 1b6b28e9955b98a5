package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/hashgrid/grid/x/settlement/keeper"
	"github.com/hashgrid/grid/x/settlement/types"
)

// StubHostRegistry is a host eligibility check driven by an allowlist. When
// AllowAll is set every host is eligible.
type StubHostRegistry struct {
	AllowAll bool
	Eligible map[string]bool
}

func (r *StubHostRegistry) IsEligibleHost(_ context.Context, addr sdk.AccAddress) bool {
	if r.AllowAll {
		return true
	}
	return r.Eligible[addr.String()]
}

// Fixture bundles the settlement keeper with the real auth and bank keepers
// it runs against in tests.
type Fixture struct {
	Keeper        *keeper.Keeper
	Ctx           sdk.Context
	BankKeeper    bankkeeper.Keeper
	AccountKeeper authkeeper.AccountKeeper
	HostRegistry  *StubHostRegistry
	Authority     string
}

// SettlementKeeper creates a test keeper for the settlement module backed by
// an in-memory store and real auth and bank keepers.
func SettlementKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	f := NewFixture(t)
	return f.Keeper, f.Ctx
}

// NewFixture builds the full settlement test environment.
func NewFixture(t testing.TB) *Fixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	// The settlement module account needs Minter so tests can conjure test
	// balances through FundAccount.
	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		types.ModuleName:           {authtypes.Minter},
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	hostRegistry := &StubHostRegistry{AllowAll: true, Eligible: map[string]bool{}}

	amino := codec.NewLegacyAmino()
	types.RegisterLegacyAminoCodec(amino)

	k := keeper.NewKeeper(
		amino,
		storeKey,
		bankKeeper,
		accountKeeper,
		hostRegistry,
		authority.String(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Height: 1,
		Time:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, false, log.NewNopLogger())

	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return &Fixture{
		Keeper:        k,
		Ctx:           ctx,
		BankKeeper:    bankKeeper,
		AccountKeeper: accountKeeper,
		HostRegistry:  hostRegistry,
		Authority:     authority.String(),
	}
}

// FundAccount mints test coins into the module account and forwards them to
// the recipient.
func (f *Fixture) FundAccount(t testing.TB, addr sdk.AccAddress, amount math.Int, denom string) {
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, types.ModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, types.ModuleName, addr, coins))
}

// Balance returns the holder's balance in one denom.
func (f *Fixture) Balance(addr sdk.AccAddress, denom string) math.Int {
	return f.BankKeeper.GetBalance(f.Ctx, addr, denom).Amount
}

// ModuleBalance returns the settlement module account's balance in one denom.
func (f *Fixture) ModuleBalance(denom string) math.Int {
	moduleAddr := f.AccountKeeper.GetModuleAddress(types.ModuleName)
	return f.BankKeeper.GetBalance(f.Ctx, moduleAddr, denom).Amount
}

// TreasuryBalance returns the fee collector's balance in one denom.
func (f *Fixture) TreasuryBalance(denom string) math.Int {
	treasury := f.AccountKeeper.GetModuleAddress(authtypes.FeeCollectorName)
	return f.BankKeeper.GetBalance(f.Ctx, treasury, denom).Amount
}

// Addr derives a deterministic test account address.
func Addr(seed string) sdk.AccAddress {
	return sdk.AccAddress([]byte(padSeed(seed)))
}

func padSeed(seed string) string {
	for len(seed) < 20 {
		seed += "_"
	}
	return seed[:20]
}

package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	settlementtypes "github.com/hashgrid/grid/x/settlement/types"
)

// Keeper of the settlement store
type Keeper struct {
	storeKey      storetypes.StoreKey
	cdc           *codec.LegacyAmino
	bankKeeper    settlementtypes.BankKeeper
	accountKeeper settlementtypes.AccountKeeper
	hostRegistry  settlementtypes.HostRegistry
	authority     string

	metrics *SettlementMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new settlement Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	bankKeeper settlementtypes.BankKeeper,
	accountKeeper settlementtypes.AccountKeeper,
	hostRegistry settlementtypes.HostRegistry,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		cdc:           cdc,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		hostRegistry:  hostRegistry,
		authority:     authority,
		metrics:       NewSettlementMetrics(),
	}
}

// GetAuthority returns the module's authority address
func (k Keeper) GetAuthority() string {
	return k.authority
}

// getStore returns the KVStore for the settlement module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// mustMarshal marshals a state record, panicking on failure. Records are
// plain structs built by the keeper, so marshal failure is a programming
// error, not a user error.
func (k Keeper) mustMarshal(o interface{}) []byte {
	bz, err := k.cdc.Marshal(o)
	if err != nil {
		panic(err)
	}
	return bz
}

package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountKeeper defines the expected account keeper used for simulations (and module)
type AccountKeeper interface {
	GetAccount(ctx context.Context, addr sdk.AccAddress) sdk.AccountI
	GetModuleAddress(moduleName string) sdk.AccAddress
}

// BankKeeper defines the expected bank keeper used for simulations (and module)
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// HostRegistry is the interface the settlement module uses to check host
// eligibility before a job can be claimed. The compute registry module
// implements it.
type HostRegistry interface {
	// IsEligibleHost reports whether the address is registered and in good
	// standing to claim jobs.
	IsEligibleHost(ctx context.Context, addr sdk.AccAddress) bool
}

// SettlementKeeperV1 is the versioned interface for external modules to use.
type SettlementKeeperV1 interface {
	// GetJob returns job information by ID.
	GetJob(ctx context.Context, jobID uint64) (Job, error)

	// GetEscrow returns escrow information by ID.
	GetEscrow(ctx context.Context, escrowID uint64) (Escrow, error)

	// GetHostReputation returns the decayed reputation for a host.
	GetHostReputation(ctx context.Context, host sdk.AccAddress) (HostReputation, error)
}

// Package chain abstracts all blockchain-network operations behind a
// narrow contract. The ledger treats every call as slow, fallible I/O;
// nothing in here mutates ledger state.
package chain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service is the contract the ledger consumes. Implementations must be
// safe for concurrent use.
type Service interface {
	// GetBalance returns the on-chain balance of a wallet.
	GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error)

	// TransferAsset transfers the asset identified by its mint handle to
	// the given wallet.
	TransferAsset(ctx context.Context, toWallet, assetHandle string) error

	// MintAsset mints a new asset and returns its chain-assigned handle
	// (mint address).
	MintAsset(ctx context.Context, metadataURI string) (string, error)

	// ListAsset announces a marketplace listing for the asset on chain.
	ListAsset(ctx context.Context, assetHandle string) error

	// CreateWallet generates a new keypair at keypairPath and returns the
	// derived wallet address.
	CreateWallet(ctx context.Context, keypairPath string) (string, error)

	// RequestFunds asks the network faucet to fund a wallet. Throttled:
	// a minimum interval between calls and a daily cap apply.
	RequestFunds(ctx context.Context, wallet string) error
}

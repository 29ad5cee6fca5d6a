package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Mock is an in-memory Service for tests and local development.
type Mock struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	mintSeq   int
	walletSeq int

	// FailTransfer makes TransferAsset report a failure.
	FailTransfer bool
	// FailMint makes MintAsset report a failure.
	FailMint bool
	// FailList makes ListAsset report a failure.
	FailList bool
}

func NewMock() *Mock {
	return &Mock{balances: make(map[string]decimal.Decimal)}
}

// SetBalance seeds the on-chain balance of a wallet.
func (m *Mock) SetBalance(wallet string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[wallet] = balance
}

func (m *Mock) GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[wallet], nil
}

func (m *Mock) TransferAsset(ctx context.Context, toWallet, assetHandle string) error {
	if m.FailTransfer {
		return fmt.Errorf("mock transfer failure")
	}
	return nil
}

func (m *Mock) MintAsset(ctx context.Context, metadataURI string) (string, error) {
	if m.FailMint {
		return "", fmt.Errorf("mock mint failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mintSeq++
	return fmt.Sprintf("MINT-%06d", m.mintSeq), nil
}

func (m *Mock) ListAsset(ctx context.Context, assetHandle string) error {
	if m.FailList {
		return fmt.Errorf("mock delegate failure")
	}
	return nil
}

func (m *Mock) CreateWallet(ctx context.Context, keypairPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walletSeq++
	return fmt.Sprintf("WALLET-%06d", m.walletSeq), nil
}

func (m *Mock) RequestFunds(ctx context.Context, wallet string) error {
	return nil
}

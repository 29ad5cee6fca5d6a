package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/configs"
	"github.com/nft-bazaar/marketplace-api/jobs"
	"github.com/nft-bazaar/marketplace-api/marketplace"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/persistence"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

type ledger struct {
	cfg      *configs.Config
	mock     *chain.Mock
	accounts *accounts.MemStore
	nfts     *nfts.MemStore
	txs      *transactions.MemStore
	files    *persistence.FileStore
	wp       *jobs.WorkerPool

	accountService *accounts.Service
	nftService     *nfts.Service
	marketService  *marketplace.Service
}

func newLedger(t *testing.T, dataDir string) *ledger {
	t.Helper()

	cfg := &configs.Config{DataDir: dataDir, PlatformFee: "0.025"}

	l := &ledger{
		cfg:      cfg,
		mock:     chain.NewMock(),
		accounts: accounts.NewMemStore(),
		nfts:     nfts.NewMemStore(),
		txs:      transactions.NewMemStore(),
	}
	l.files = persistence.NewFileStore(dataDir, l.nfts)

	if err := l.files.LoadAccounts(l.accounts); err != nil {
		t.Fatal(err)
	}
	listed, err := l.files.LoadMarketplace(l.accounts, l.txs)
	if err != nil {
		t.Fatal(err)
	}

	l.wp = jobs.NewWorkerPool(jobs.NewMemStore(), 100, 1)

	l.accountService = accounts.NewService(cfg, l.accounts, l.mock, l.wp, l.files)
	l.nftService = nfts.NewService(l.nfts, l.accounts, l.mock, l.files)
	l.marketService = marketplace.NewService(cfg, l.accounts, l.nfts, l.txs, l.mock, l.files)
	l.marketService.SetListings(listed)

	return l
}

// Runs the whole flow against one data directory, then rebuilds every
// store from the flat files and checks the ledger state survived.
func TestLedgerSurvivesRestart(t *testing.T) {
	defer goleak.VerifyNone(t)

	dataDir := t.TempDir()
	ctx := context.Background()

	l := newLedger(t, dataDir)
	defer l.wp.Stop()

	_, alice, err := l.accountService.Create(ctx, true, "alice", "a@x.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	_, bob, err := l.accountService.Create(ctx, true, "bob", "b@x.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	l.mock.SetBalance(alice.Address, decimal.RequireFromString("1"))
	l.mock.SetBalance(bob.Address, decimal.RequireFromString("20"))

	if _, err := l.nftService.CreateCollection(alice, "art"); err != nil {
		t.Fatal(err)
	}

	minted, err := l.nftService.Mint(ctx, alice, "Sunset", decimal.RequireFromString("2.5"), "ipfs://sunset", "art")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.marketService.List(ctx, alice.Address, minted.TokenId, decimal.RequireFromString("10")); err != nil {
		t.Fatal(err)
	}

	tx, err := l.marketService.Buy(ctx, bob.Address, minted.TokenId)
	if err != nil {
		t.Fatal(err)
	}

	// Rebuild everything from disk.
	restored := newLedger(t, dataDir)
	defer restored.wp.Stop()

	aliceAfter, err := restored.accounts.Account(alice.Address)
	if err != nil {
		t.Fatal(err)
	}
	if !aliceAfter.Balance.Equal(decimal.RequireFromString("10")) {
		t.Errorf("unexpected seller balance after restart: %s", aliceAfter.Balance)
	}
	if aliceAfter.OwnsToken(minted.TokenId) {
		t.Error("seller should not own the sold token after restart")
	}

	bobAfter, err := restored.accounts.Account(bob.Address)
	if err != nil {
		t.Fatal(err)
	}
	if !bobAfter.Balance.Equal(decimal.RequireFromString("-10.25")) {
		t.Errorf("unexpected buyer balance after restart: %s", bobAfter.Balance)
	}
	if len(bobAfter.TransactionIds) != 1 || bobAfter.TransactionIds[0] != tx.TransactionId {
		t.Errorf("unexpected buyer history after restart: %v", bobAfter.TransactionIds)
	}

	got, err := restored.txs.Transaction(tx.TransactionId)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Fee.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("unexpected fee after restart: %s", got.Fee)
	}

	listings, err := restored.marketService.Listings()
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 0 {
		t.Errorf("expected no listings after restart, got %d", len(listings))
	}
}

// A price set at listing time must not revert to the mint-time price
// when the NFT is unlisted and the process restarts.
func TestListingPriceSurvivesRestart(t *testing.T) {
	defer goleak.VerifyNone(t)

	dataDir := t.TempDir()
	ctx := context.Background()

	l := newLedger(t, dataDir)
	defer l.wp.Stop()

	_, alice, err := l.accountService.Create(ctx, true, "alice", "a@x.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	l.mock.SetBalance(alice.Address, decimal.RequireFromString("1"))

	if _, err := l.nftService.CreateCollection(alice, "art"); err != nil {
		t.Fatal(err)
	}

	minted, err := l.nftService.Mint(ctx, alice, "Sunset", decimal.RequireFromString("2.5"), "ipfs://sunset", "art")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.marketService.List(ctx, alice.Address, minted.TokenId, decimal.RequireFromString("10")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.marketService.Unlist(ctx, alice.Address, minted.TokenId); err != nil {
		t.Fatal(err)
	}

	restored := newLedger(t, dataDir)
	defer restored.wp.Stop()

	n, err := restored.nfts.NFT(minted.TokenId)
	if err != nil {
		t.Fatal(err)
	}
	if !n.Price.Equal(decimal.RequireFromString("10")) {
		t.Errorf("unexpected price after restart: %s", n.Price)
	}
	if n.Listed {
		t.Error("token should not be listed after restart")
	}
	if n.Owner != alice.Address {
		t.Errorf("unexpected owner after restart: %s", n.Owner)
	}
}

package marketplace

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/configs"
	"github.com/nft-bazaar/marketplace-api/errors"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

type recordingSaver struct {
	accountSaves     int
	marketplaceSaves int
}

func (s *recordingSaver) SaveAccount(a *accounts.Account) error { s.accountSaves++; return nil }

func (s *recordingSaver) SaveMarketplace(listings []nfts.NFT, txs []transactions.Transaction) error {
	s.marketplaceSaves++
	return nil
}

type fixture struct {
	service  *Service
	accounts *accounts.MemStore
	nfts     *nfts.MemStore
	txs      *transactions.MemStore
	mock     *chain.Mock
	saver    *recordingSaver
}

// newFixture seeds a seller owning one minted NFT and a buyer with funds.
func newFixture(t *testing.T, feeSink string) *fixture {
	t.Helper()

	accountStore := accounts.NewMemStore()
	seller := &accounts.Account{Address: "W1", Name: "alice", Email: "a@x.com", Balance: decimal.Zero}
	seller.AddToken("NFT-0000AA")
	require.NoError(t, accountStore.InsertAccount(seller))

	buyer := &accounts.Account{Address: "W2", Name: "bob", Email: "b@x.com", Balance: decimal.RequireFromString("20")}
	require.NoError(t, accountStore.InsertAccount(buyer))

	nftStore := nfts.NewMemStore()
	require.NoError(t, nftStore.InsertNFT(&nfts.NFT{
		TokenId:     "NFT-0000AA",
		Name:        "Sunset",
		Owner:       "W1",
		Price:       decimal.Zero,
		MintAddress: "MINT-000001",
	}))
	require.NoError(t, nftStore.InsertCollection(&nfts.Collection{
		Name:     "art",
		Creator:  "alice",
		Owner:    "W1",
		TokenIds: []string{"NFT-0000AA"},
	}))

	mock := chain.NewMock()
	mock.SetBalance("W2", decimal.RequireFromString("20"))

	saver := &recordingSaver{}
	txStore := transactions.NewMemStore()
	cfg := &configs.Config{PlatformFee: "0.025", FeeSinkAddress: feeSink}

	return &fixture{
		service:  NewService(cfg, accountStore, nftStore, txStore, mock, saver),
		accounts: accountStore,
		nfts:     nftStore,
		txs:      txStore,
		mock:     mock,
		saver:    saver,
	}
}

func (f *fixture) list(t *testing.T, price string) {
	t.Helper()
	_, err := f.service.List(context.Background(), "W1", "NFT-0000AA", decimal.RequireFromString(price))
	require.NoError(t, err)
}

func TestList(t *testing.T) {
	t.Run("lists an owned NFT", func(t *testing.T) {
		f := newFixture(t, "")

		n, err := f.service.List(context.Background(), "W1", "NFT-0000AA", decimal.RequireFromString("10"))
		require.NoError(t, err)

		assert.True(t, n.Listed)
		assert.True(t, n.Price.Equal(decimal.RequireFromString("10")))

		listings, err := f.service.Listings()
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "NFT-0000AA", listings[0].TokenId)
		assert.Equal(t, 1, f.saver.marketplaceSaves)

		// The owner's directory is flushed too; it carries the price.
		assert.Equal(t, 1, f.saver.accountSaves)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t, "")

		_, err := f.service.List(context.Background(), "W1", "NFT-FFFFFF", decimal.RequireFromString("10"))
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("only the owner can list", func(t *testing.T) {
		f := newFixture(t, "")

		_, err := f.service.List(context.Background(), "W2", "NFT-0000AA", decimal.RequireFromString("10"))
		assert.ErrorIs(t, err, errors.ErrNotOwner)
	})

	t.Run("price must be positive", func(t *testing.T) {
		f := newFixture(t, "")

		_, err := f.service.List(context.Background(), "W1", "NFT-0000AA", decimal.Zero)
		require.Error(t, err)

		var reqErr *errors.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 400, reqErr.StatusCode)
	})

	t.Run("double listing", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")

		_, err := f.service.List(context.Background(), "W1", "NFT-0000AA", decimal.RequireFromString("12"))
		assert.ErrorIs(t, err, errors.ErrAlreadyListed)
	})

	t.Run("chain failure leaves no state", func(t *testing.T) {
		f := newFixture(t, "")
		f.mock.FailList = true

		_, err := f.service.List(context.Background(), "W1", "NFT-0000AA", decimal.RequireFromString("10"))
		require.Error(t, err)

		n, err := f.nfts.NFT("NFT-0000AA")
		require.NoError(t, err)
		assert.False(t, n.Listed)

		listings, err := f.service.Listings()
		require.NoError(t, err)
		assert.Empty(t, listings)
	})
}

func TestUnlist(t *testing.T) {
	t.Run("unlists a listed NFT", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")

		n, err := f.service.Unlist(context.Background(), "W1", "NFT-0000AA")
		require.NoError(t, err)
		assert.False(t, n.Listed)

		listings, err := f.service.Listings()
		require.NoError(t, err)
		assert.Empty(t, listings)

		// One flush per operation, list then unlist.
		assert.Equal(t, 2, f.saver.accountSaves)
	})

	t.Run("not listed", func(t *testing.T) {
		f := newFixture(t, "")

		_, err := f.service.Unlist(context.Background(), "W1", "NFT-0000AA")
		assert.ErrorIs(t, err, errors.ErrNotListed)
	})

	t.Run("only the owner can unlist", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")

		_, err := f.service.Unlist(context.Background(), "W2", "NFT-0000AA")
		assert.ErrorIs(t, err, errors.ErrNotOwner)
	})
}

func TestBuy(t *testing.T) {
	t.Run("completes a purchase", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")

		tx, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		require.NoError(t, err)

		assert.Equal(t, transactions.StatusCompleted, tx.Status)
		assert.Equal(t, "W1", tx.Seller)
		assert.Equal(t, "W2", tx.Buyer)
		assert.True(t, tx.Price.Equal(decimal.RequireFromString("10")))
		assert.True(t, tx.Fee.Equal(decimal.RequireFromString("0.25")))

		// Buyer pays price plus fee, seller receives the full price.
		buyer, err := f.accounts.Account("W2")
		require.NoError(t, err)
		assert.True(t, buyer.Balance.Equal(decimal.RequireFromString("9.75")), "buyer balance: %s", buyer.Balance)
		assert.True(t, buyer.OwnsToken("NFT-0000AA"))
		assert.Contains(t, buyer.TransactionIds, tx.TransactionId)

		seller, err := f.accounts.Account("W1")
		require.NoError(t, err)
		assert.True(t, seller.Balance.Equal(decimal.RequireFromString("10")), "seller balance: %s", seller.Balance)
		assert.False(t, seller.OwnsToken("NFT-0000AA"))

		// Ownership moved in the canonical record and the listing is gone.
		n, err := f.nfts.NFT("NFT-0000AA")
		require.NoError(t, err)
		assert.Equal(t, "W2", n.Owner)
		assert.False(t, n.Listed)

		listings, err := f.service.Listings()
		require.NoError(t, err)
		assert.Empty(t, listings)

		// The token left the seller's collection.
		c, err := f.nfts.Collection("W1", "art")
		require.NoError(t, err)
		assert.False(t, c.Contains("NFT-0000AA"))

		got, err := f.txs.Transaction(tx.TransactionId)
		require.NoError(t, err)
		assert.Equal(t, "NFT-0000AA", got.TokenId)
	})

	t.Run("not listed", func(t *testing.T) {
		f := newFixture(t, "")

		_, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		assert.ErrorIs(t, err, errors.ErrNotListed)
	})

	t.Run("cannot buy own NFT", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")

		_, err := f.service.Buy(context.Background(), "W1", "NFT-0000AA")
		require.Error(t, err)

		var reqErr *errors.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 400, reqErr.StatusCode)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")
		f.mock.SetBalance("W2", decimal.RequireFromString("10"))

		// 10 covers the price but not the 0.25 fee on top.
		_, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
	})

	t.Run("transfer failure leaves no state", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")
		f.mock.FailTransfer = true

		_, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		assert.ErrorIs(t, err, errors.ErrTransferFailed)

		n, err := f.nfts.NFT("NFT-0000AA")
		require.NoError(t, err)
		assert.Equal(t, "W1", n.Owner)
		assert.True(t, n.Listed)

		buyer, err := f.accounts.Account("W2")
		require.NoError(t, err)
		assert.True(t, buyer.Balance.Equal(decimal.RequireFromString("20")))
		assert.Empty(t, buyer.TransactionIds)
	})

	t.Run("credits the fee sink when configured", func(t *testing.T) {
		f := newFixture(t, "TREASURY")
		require.NoError(t, f.accounts.InsertAccount(&accounts.Account{
			Address: "TREASURY", Name: "treasury", Email: "t@x.com", Balance: decimal.Zero,
		}))
		f.list(t, "10")

		_, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		require.NoError(t, err)

		sink, err := f.accounts.Account("TREASURY")
		require.NoError(t, err)
		assert.True(t, sink.Balance.Equal(decimal.RequireFromString("0.25")), "sink balance: %s", sink.Balance)
	})

	t.Run("tolerates a deleted seller", func(t *testing.T) {
		f := newFixture(t, "")
		f.list(t, "10")
		require.NoError(t, f.accounts.HardDeleteAccount("W1"))

		tx, err := f.service.Buy(context.Background(), "W2", "NFT-0000AA")
		require.NoError(t, err)
		assert.Equal(t, "W1", tx.Seller)

		n, err := f.nfts.NFT("NFT-0000AA")
		require.NoError(t, err)
		assert.Equal(t, "W2", n.Owner)
	})
}

func TestFee(t *testing.T) {
	f := newFixture(t, "")

	tests := []struct {
		price string
		fee   string
	}{
		{"10", "0.25"},
		{"1", "0.025"},
		{"100", "2.5"},
		// Banker's rounding at lamport precision.
		{"0.0000001", "0.000000002"},
		{"0.00000014", "0.000000004"},
	}

	for _, tc := range tests {
		got := f.service.Fee(decimal.RequireFromString(tc.price))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.fee)), "fee(%s) = %s, expected %s", tc.price, got, tc.fee)
	}
}

func TestSetListings(t *testing.T) {
	f := newFixture(t, "")

	f.service.SetListings([]string{"NFT-0000AA", "NFT-FFFFFF"})

	listings, err := f.service.Listings()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "NFT-0000AA", listings[0].TokenId)
}

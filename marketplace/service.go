// Package marketplace implements the listing and purchase flows of the
// ledger. All operations run under one engine-wide mutex so a purchase is
// observed either not at all or in full.
package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/configs"
	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

// feeScale is the decimal precision fees are rounded to, one lamport.
const feeScale = 9

// Saver flushes marketplace and account state to durable storage.
type Saver interface {
	SaveAccount(a *accounts.Account) error
	SaveMarketplace(listings []nfts.NFT, txs []transactions.Transaction) error
}

// Service is the marketplace ledger engine.
type Service struct {
	mu sync.Mutex

	accounts accounts.Store
	nfts     nfts.Store
	txs      transactions.Store
	cs       chain.Service
	saver    Saver

	platformFee decimal.Decimal
	feeSink     string

	// listed holds the token ids currently on the marketplace, in
	// listing order.
	listed []string
}

// NewService initiates a new marketplace service. The platform fee rate
// comes from the configuration and must be a valid decimal.
func NewService(
	cfg *configs.Config,
	accountStore accounts.Store,
	nftStore nfts.Store,
	txStore transactions.Store,
	cs chain.Service,
	saver Saver,
) *Service {
	return &Service{
		accounts:    accountStore,
		nfts:        nftStore,
		txs:         txStore,
		cs:          cs,
		saver:       saver,
		platformFee: decimal.RequireFromString(cfg.PlatformFee),
		feeSink:     cfg.FeeSinkAddress,
	}
}

// Fee returns the platform fee charged on top of a sale price, rounded
// to lamport precision with banker's rounding.
func (s *Service) Fee(price decimal.Decimal) decimal.Decimal {
	return price.Mul(s.platformFee).RoundBank(feeScale)
}

// Listings returns the canonical records of all listed NFTs, in listing
// order.
func (s *Service) Listings() ([]nfts.NFT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotListings()
}

// SetListings replaces the listing set, used when restoring persisted
// state on startup. Token ids without a canonical record are skipped.
func (s *Service) SetListings(tokenIds []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listed = nil
	for _, id := range tokenIds {
		if s.nfts.TokenExists(id) {
			s.listed = append(s.listed, id)
		} else {
			log.WithFields(log.Fields{"tokenId": id}).Warn("Skipping listing for unknown token")
		}
	}
}

// List puts an NFT owned by the caller up for sale at the given price.
// The asset is delegated to the marketplace on chain before any ledger
// state changes.
func (s *Service) List(ctx context.Context, caller, tokenId string, price decimal.Decimal) (nfts.NFT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nfts.NFT(tokenId)
	if err != nil {
		return nfts.NFT{}, err
	}

	if n.Owner != caller {
		return nfts.NFT{}, errors.ErrNotOwner
	}

	if !price.IsPositive() {
		return nfts.NFT{}, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("listing price must be positive"),
		}
	}

	if n.Listed {
		return nfts.NFT{}, errors.ErrAlreadyListed
	}

	if err := s.cs.ListAsset(ctx, n.MintAddress); err != nil {
		return nfts.NFT{}, err
	}

	n.Listed = true
	n.Price = price
	if err := s.nfts.UpdateNFT(&n); err != nil {
		return nfts.NFT{}, err
	}
	s.listed = append(s.listed, tokenId)

	// The owner's collections.json carries the canonical price too.
	if owner, err := s.accounts.Account(caller); err == nil {
		s.persistAccount(&owner)
	}
	s.persistMarketplace()

	log.
		WithFields(log.Fields{"tokenId": tokenId, "seller": caller, "price": price}).
		Info("Listed NFT")

	return n, nil
}

// Unlist takes the caller's NFT off the marketplace.
func (s *Service) Unlist(ctx context.Context, caller, tokenId string) (nfts.NFT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nfts.NFT(tokenId)
	if err != nil {
		return nfts.NFT{}, err
	}

	if n.Owner != caller {
		return nfts.NFT{}, errors.ErrNotOwner
	}

	if !n.Listed {
		return nfts.NFT{}, errors.ErrNotListed
	}

	n.Listed = false
	if err := s.nfts.UpdateNFT(&n); err != nil {
		return nfts.NFT{}, err
	}
	s.removeListing(tokenId)

	if owner, err := s.accounts.Account(caller); err == nil {
		s.persistAccount(&owner)
	}
	s.persistMarketplace()

	return n, nil
}

// Buy transfers a listed NFT to the buyer. The buyer pays price plus the
// platform fee; the seller receives the full price. Both chain calls run
// before any ledger state is touched, so a failed transfer leaves the
// ledger exactly as it was.
func (s *Service) Buy(ctx context.Context, buyerAddress, tokenId string) (transactions.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nfts.NFT(tokenId)
	if err != nil {
		return transactions.Transaction{}, err
	}

	if !n.Listed {
		return transactions.Transaction{}, errors.ErrNotListed
	}

	if n.Owner == buyerAddress {
		return transactions.Transaction{}, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("cannot buy an NFT you already own"),
		}
	}

	buyer, err := s.accounts.Account(buyerAddress)
	if err != nil {
		return transactions.Transaction{}, err
	}

	fee := s.Fee(n.Price)
	total := n.Price.Add(fee)

	balance, err := s.cs.GetBalance(ctx, buyerAddress)
	if err != nil {
		return transactions.Transaction{}, err
	}
	if balance.LessThan(total) {
		return transactions.Transaction{}, fmt.Errorf("purchase requires %s: %w", total, errors.ErrInsufficientFunds)
	}

	if err := s.cs.TransferAsset(ctx, buyerAddress, n.MintAddress); err != nil {
		return transactions.Transaction{}, fmt.Errorf("%s: %w", err, errors.ErrTransferFailed)
	}

	tx, err := transactions.New(s.txs.TransactionExists, tokenId, n.Owner, buyerAddress, n.Price, fee)
	if err != nil {
		return transactions.Transaction{}, err
	}

	// Commit. Chain side effects are done; from here on the ledger
	// mutates as one unit under the engine lock.
	sellerAddress := n.Owner

	n.Owner = buyerAddress
	n.Listed = false
	if err := s.nfts.UpdateNFT(&n); err != nil {
		return transactions.Transaction{}, err
	}
	s.removeListing(tokenId)

	seller, sellerErr := s.accounts.Account(sellerAddress)
	if sellerErr == nil {
		seller.RemoveToken(tokenId)
		seller.Balance = seller.Balance.Add(n.Price)
		s.detachFromCollections(sellerAddress, tokenId)
		if err := s.accounts.SaveAccount(&seller); err != nil {
			return transactions.Transaction{}, err
		}
	} else {
		// The seller's account may have been deleted after listing. The
		// sale still goes through; the proceeds have nowhere to go.
		log.
			WithFields(log.Fields{"seller": sellerAddress, "tokenId": tokenId}).
			Warn("Seller account missing, skipping credit")
	}

	buyer.AddToken(tokenId)
	buyer.Balance = buyer.Balance.Sub(total)
	buyer.AddTransaction(tx.TransactionId)
	if err := s.accounts.SaveAccount(&buyer); err != nil {
		return transactions.Transaction{}, err
	}

	if s.feeSink != "" {
		if sink, err := s.accounts.Account(s.feeSink); err == nil {
			sink.Balance = sink.Balance.Add(fee)
			if err := s.accounts.SaveAccount(&sink); err != nil {
				return transactions.Transaction{}, err
			}
		}
	}

	if err := s.txs.InsertTransaction(&tx); err != nil {
		return transactions.Transaction{}, err
	}

	s.persistAccount(&buyer)
	if sellerErr == nil {
		s.persistAccount(&seller)
	}
	s.persistMarketplace()

	log.
		WithFields(log.Fields{
			"transactionId": tx.TransactionId,
			"tokenId":       tokenId,
			"seller":        sellerAddress,
			"buyer":         buyerAddress,
			"price":         n.Price,
			"fee":           fee,
		}).
		Info("Completed purchase")

	return tx, nil
}

func (s *Service) snapshotListings() ([]nfts.NFT, error) {
	result := make([]nfts.NFT, 0, len(s.listed))
	for _, id := range s.listed {
		n, err := s.nfts.NFT(id)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func (s *Service) removeListing(tokenId string) {
	for i, id := range s.listed {
		if id == tokenId {
			s.listed = append(s.listed[:i], s.listed[i+1:]...)
			return
		}
	}
}

func (s *Service) detachFromCollections(owner, tokenId string) {
	cc, err := s.nfts.Collections(owner)
	if err != nil {
		return
	}
	for _, c := range cc {
		if c.Contains(tokenId) {
			c.Remove(tokenId)
			if err := s.nfts.UpdateCollection(&c); err != nil {
				log.
					WithFields(log.Fields{"error": err, "owner": owner, "collection": c.Name}).
					Warn("Could not update collection")
			}
		}
	}
}

// Persistence failures never undo a committed purchase. They are logged
// and the in-memory ledger stays authoritative.
func (s *Service) persistAccount(a *accounts.Account) {
	if err := s.saver.SaveAccount(a); err != nil {
		log.
			WithFields(log.Fields{"error": err, "address": a.Address}).
			Warn("Could not persist account")
	}
}

func (s *Service) persistMarketplace() {
	listings, err := s.snapshotListings()
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not snapshot listings")
		return
	}

	all, err := s.txs.Transactions(datastore.ListOptions{})
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not snapshot transactions")
		return
	}

	// The store lists newest first; the persisted log is chronological.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	if err := s.saver.SaveMarketplace(listings, all); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not persist marketplace state")
	}
}

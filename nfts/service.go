package nfts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// minMintBalance is the minimum on-chain balance required to mint.
var minMintBalance = decimal.RequireFromString("0.05")

// Saver flushes an account's collections to durable storage.
type Saver interface {
	SaveAccount(a *accounts.Account) error
}

// Service defines the API for minting and collection management.
type Service struct {
	store    Store
	accounts accounts.Store
	cs       chain.Service
	saver    Saver
}

func NewService(store Store, accountStore accounts.Store, cs chain.Service, saver Saver) *Service {
	return &Service{store, accountStore, cs, saver}
}

// Details returns the canonical record for a token id.
func (s *Service) Details(tokenId string) (NFT, error) {
	return s.store.NFT(tokenId)
}

// Owned returns the canonical records of the NFTs an account owns.
func (s *Service) Owned(owner string) ([]NFT, error) {
	return s.store.NFTs(owner)
}

// Collections returns an account's collections.
func (s *Service) Collections(owner string) ([]Collection, error) {
	return s.store.Collections(owner)
}

// CreateCollection creates an empty collection for the owning account.
// The collection name must be unique within that account only.
func (s *Service) CreateCollection(owner *accounts.Account, name string) (Collection, error) {
	if name == "" {
		return Collection{}, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("collection name cannot be empty"),
		}
	}

	c := Collection{
		Name:    name,
		Creator: owner.Name,
		Owner:   owner.Address,
	}

	if err := s.store.InsertCollection(&c); err != nil {
		return Collection{}, err
	}

	if err := s.saver.SaveAccount(owner); err != nil {
		log.
			WithFields(log.Fields{"error": err, "address": owner.Address}).
			Warn("Could not persist collections")
	}

	return c, nil
}

// Mint creates a new NFT owned by the given account: the asset is minted
// through the chain service first, then the canonical record is created
// and appended to the owner's owned set, and optionally to one of the
// owner's collections.
//
// Minting requires a minimum on-chain balance.
func (s *Service) Mint(ctx context.Context, owner *accounts.Account, name string, price decimal.Decimal, metadataURI, collectionName string) (NFT, error) {
	if price.IsNegative() {
		return NFT{}, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("price cannot be negative"),
		}
	}

	var collection Collection
	if collectionName != "" {
		var err error
		collection, err = s.store.Collection(owner.Address, collectionName)
		if err != nil {
			return NFT{}, fmt.Errorf("collection %q: %w", collectionName, err)
		}
	}

	balance, err := s.cs.GetBalance(ctx, owner.Address)
	if err != nil {
		return NFT{}, err
	}
	if balance.LessThan(minMintBalance) {
		return NFT{}, fmt.Errorf("minting requires a balance of at least %s: %w", minMintBalance, errors.ErrInsufficientFunds)
	}

	mintAddress, err := s.cs.MintAsset(ctx, metadataURI)
	if err != nil {
		return NFT{}, fmt.Errorf("mint: %w", err)
	}

	tokenId, err := GenerateTokenId(s.store.TokenExists)
	if err != nil {
		return NFT{}, err
	}

	n := NFT{
		TokenId:     tokenId,
		Name:        name,
		Owner:       owner.Address,
		Price:       price,
		MintAddress: mintAddress,
		MetadataURI: metadataURI,
	}

	if err := s.store.InsertNFT(&n); err != nil {
		return NFT{}, err
	}

	owner.AddToken(tokenId)
	if err := s.accounts.SaveAccount(owner); err != nil {
		return NFT{}, err
	}

	if collectionName != "" {
		collection.TokenIds = append(collection.TokenIds, tokenId)
		if err := s.store.UpdateCollection(&collection); err != nil {
			return NFT{}, err
		}
	}

	if err := s.saver.SaveAccount(owner); err != nil {
		log.
			WithFields(log.Fields{"error": err, "address": owner.Address}).
			Warn("Could not persist owner after mint")
	}

	log.
		WithFields(log.Fields{"tokenId": tokenId, "owner": owner.Address, "mintAddress": mintAddress}).
		Info("Minted NFT")

	return n, nil
}

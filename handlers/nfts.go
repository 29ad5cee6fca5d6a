package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/session"
)

// NFTs is a HTTP server for minting and collection management.
// Mutating operations act as the logged-in account.
type NFTs struct {
	service *nfts.Service
	session *session.Manager
}

// MintRequest represents a JSON payload for a HTTP request
type MintRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MetadataURI string          `json:"metadataUri"`
	Collection  string          `json:"collection"`
}

// CreateCollectionRequest represents a JSON payload for a HTTP request
type CreateCollectionRequest struct {
	Name string `json:"name"`
}

// NewNFTs initiates a new NFT server.
func NewNFTs(service *nfts.Service, manager *session.Manager) *NFTs {
	return &NFTs{service, manager}
}

func (s *NFTs) Mint() http.Handler {
	return http.HandlerFunc(s.MintFunc)
}

func (s *NFTs) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *NFTs) Owned() http.Handler {
	return http.HandlerFunc(s.OwnedFunc)
}

func (s *NFTs) Collections() http.Handler {
	return http.HandlerFunc(s.CollectionsFunc)
}

func (s *NFTs) CreateCollection() http.Handler {
	return http.HandlerFunc(s.CreateCollectionFunc)
}

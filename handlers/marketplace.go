package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nft-bazaar/marketplace-api/marketplace"
	"github.com/nft-bazaar/marketplace-api/session"
)

// Marketplace is a HTTP server for listings and purchases.
// Mutating operations act as the logged-in account.
type Marketplace struct {
	service *marketplace.Service
	session *session.Manager
}

// ListNFTRequest represents a JSON payload for a HTTP request
type ListNFTRequest struct {
	TokenId string          `json:"tokenId"`
	Price   decimal.Decimal `json:"price"`
}

// NewMarketplace initiates a new marketplace server.
func NewMarketplace(service *marketplace.Service, manager *session.Manager) *Marketplace {
	return &Marketplace{service, manager}
}

func (s *Marketplace) Listings() http.Handler {
	return http.HandlerFunc(s.ListingsFunc)
}

func (s *Marketplace) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Marketplace) Unlist() http.Handler {
	return http.HandlerFunc(s.UnlistFunc)
}

func (s *Marketplace) Buy() http.Handler {
	return http.HandlerFunc(s.BuyFunc)
}

package handlers

import (
	"net/http"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

// Transactions is a HTTP server for the purchase log.
type Transactions struct {
	service  *transactions.Service
	accounts accounts.Store
}

// NewTransactions initiates a new transactions server.
func NewTransactions(service *transactions.Service, accountStore accounts.Store) *Transactions {
	return &Transactions{service, accountStore}
}

func (s *Transactions) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Transactions) AccountHistory() http.Handler {
	return http.HandlerFunc(s.AccountHistoryFunc)
}

func (s *Transactions) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

package handlers

import (
	"net/http"

	"github.com/nft-bazaar/marketplace-api/accounts"
)

// Accounts is a HTTP server for account management.
// It provides list, create, details, delete and funding APIs.
// It uses an account service to interface with data.
type Accounts struct {
	service *accounts.Service
}

// CreateAccountRequest represents a JSON payload for a HTTP request
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAccounts initiates a new accounts server.
func NewAccounts(service *accounts.Service) *Accounts {
	return &Accounts{service}
}

func (s *Accounts) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Accounts) Create() http.Handler {
	return http.HandlerFunc(s.CreateFunc)
}

func (s *Accounts) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Accounts) Delete() http.Handler {
	return http.HandlerFunc(s.DeleteFunc)
}

func (s *Accounts) Fund() http.Handler {
	return http.HandlerFunc(s.FundFunc)
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// Listings returns all NFTs currently up for sale.
func (s *Marketplace) ListingsFunc(rw http.ResponseWriter, r *http.Request) {
	res, err := s.service.Listings()
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// List puts an NFT owned by the logged-in account up for sale.
func (s *Marketplace) ListFunc(rw http.ResponseWriter, r *http.Request) {
	caller, err := s.session.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	var body ListNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	res, err := s.service.List(r.Context(), caller.Address, body.TokenId, body.Price)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

// Unlist takes the logged-in account's NFT off the marketplace.
func (s *Marketplace) UnlistFunc(rw http.ResponseWriter, r *http.Request) {
	caller, err := s.session.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	vars := mux.Vars(r)

	res, err := s.service.Unlist(r.Context(), caller.Address, vars["tokenId"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Buy purchases a listed NFT for the logged-in account.
func (s *Marketplace) BuyFunc(rw http.ResponseWriter, r *http.Request) {
	buyer, err := s.session.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	vars := mux.Vars(r)

	res, err := s.service.Buy(r.Context(), buyer.Address, vars["tokenId"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

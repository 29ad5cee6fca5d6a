package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nft-bazaar/marketplace-api/errors"
	"github.com/nft-bazaar/marketplace-api/nfts"
)

// Mint creates a new NFT owned by the logged-in account.
func (s *NFTs) MintFunc(rw http.ResponseWriter, r *http.Request) {
	owner, err := s.session.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	var body MintRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	if body.Name == "" {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("name is required"),
		})
		return
	}

	res, err := s.service.Mint(r.Context(), &owner, body.Name, body.Price, body.MetadataURI, body.Collection)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

// Details returns the canonical record of an NFT.
func (s *NFTs) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Details(vars["tokenId"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Owned returns the NFTs owned by an account.
func (s *NFTs) OwnedFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Owned(vars["address"])
	if err != nil {
		handleError(rw, err)
		return
	}

	if res == nil {
		res = []nfts.NFT{}
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Collections returns an account's collections.
func (s *NFTs) CollectionsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Collections(vars["address"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// CreateCollection creates an empty collection for the logged-in account.
func (s *NFTs) CreateCollectionFunc(rw http.ResponseWriter, r *http.Request) {
	owner, err := s.session.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	var body CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	res, err := s.service.CreateCollection(&owner, body.Name)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

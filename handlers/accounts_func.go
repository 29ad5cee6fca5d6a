package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// List returns all accounts.
func (s *Accounts) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.service.List(limit, offset)

	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Create registers a new account asynchronously.
// It returns a Job JSON representation unless the sync header is set.
func (s *Accounts) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	var body CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	if body.Name == "" || body.Email == "" || body.Password == "" {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("name, email and password are required"),
		})
		return
	}

	// Decide whether to serve sync or async, default async
	sync := r.Header.Get(SyncHeader) != ""
	job, account, err := s.service.Create(r.Context(), sync, body.Name, body.Email, body.Password)
	var res interface{}
	if sync {
		res = account
	} else {
		res = job
	}

	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

// Details returns details regarding an account.
// It reads the wallet address for the wanted account from URL.
func (s *Accounts) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Details(vars["address"])

	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Delete permanently removes an account.
func (s *Accounts) DeleteFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.service.Delete(vars["address"]); err != nil {
		handleError(rw, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

// Fund requests faucet funds for an account's wallet.
func (s *Accounts) FundFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.service.Fund(r.Context(), vars["address"]); err != nil {
		handleError(rw, err)
		return
	}

	rw.WriteHeader(http.StatusAccepted)
}

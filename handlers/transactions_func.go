package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// List returns recorded transactions, newest first.
func (s *Transactions) ListFunc(rw http.ResponseWriter, r *http.Request) {
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

// AccountHistory returns the transactions an account took part in as the
// buyer, newest first.
func (s *Transactions) AccountHistoryFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	account, err := s.accounts.Account(vars["address"])
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := s.service.ForAccount(account.TransactionIds)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Details returns one transaction by id.
func (s *Transactions) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Details(vars["transactionId"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

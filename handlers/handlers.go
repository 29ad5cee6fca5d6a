// Package handlers provides HTTP handlers for different services across
// the application.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// SyncHeader makes job-backed endpoints wait for the result instead of
// returning the job.
const SyncHeader = "Use-Sync"

// handleError is a helper function for unified HTTP error handling.
func handleError(rw http.ResponseWriter, err error) {
	status := errors.StatusCodeForError(err)

	// Faucet throttling maps outside the ledger's own error set.
	if stderrors.Is(err, chain.ErrFundingTooSoon) || stderrors.Is(err, chain.ErrFundingDailyCapReached) {
		status = http.StatusTooManyRequests
	}

	log.WithFields(log.Fields{"error": err, "status": status}).Warn("Request failed")

	if status < http.StatusInternalServerError {
		http.Error(rw, err.Error(), status)
		return
	}

	// Do not leak internals on server errors.
	http.Error(rw, "Error", status)
}

// handleJsonResponse is a helper function for unified JSON response
// handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not encode response")
	}
}

func servePlainText(rw http.ResponseWriter, s string) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := rw.Write([]byte(s)); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not write response")
	}
}

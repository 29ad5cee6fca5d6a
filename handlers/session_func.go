package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// Login opens the session for the credentials in the request body.
func (s *Session) LoginFunc(rw http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	account, err := s.manager.Login(body.Email, body.Password)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, account)
}

// Logout closes the active session.
func (s *Session) LogoutFunc(rw http.ResponseWriter, r *http.Request) {
	if err := s.manager.Logout(); err != nil {
		handleError(rw, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

// Current returns the logged-in account.
func (s *Session) CurrentFunc(rw http.ResponseWriter, r *http.Request) {
	account, err := s.manager.Current()
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, account)
}

package handlers

import (
	"net/http"

	"github.com/nft-bazaar/marketplace-api/session"
)

// Session is a HTTP server for login and logout.
type Session struct {
	manager *session.Manager
}

// LoginRequest represents a JSON payload for a HTTP request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewSession initiates a new session server.
func NewSession(manager *session.Manager) *Session {
	return &Session{manager}
}

func (s *Session) Login() http.Handler {
	return http.HandlerFunc(s.LoginFunc)
}

func (s *Session) Logout() http.Handler {
	return http.HandlerFunc(s.LogoutFunc)
}

func (s *Session) Current() http.Handler {
	return http.HandlerFunc(s.CurrentFunc)
}

package handlers

import (
	"net/http"

	"github.com/nft-bazaar/marketplace-api/jobs"
)

// Jobs is a HTTP server for jobs.
// It provides details API.
// It uses jobs service to interface with data.
type Jobs struct {
	store jobs.Store
}

// NewJobs initiates a new jobs server.
func NewJobs(store jobs.Store) *Jobs {
	return &Jobs{store}
}

func (s *Jobs) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Jobs) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

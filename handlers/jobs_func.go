package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// List returns all jobs, newest first.
func (s *Jobs) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.store.Jobs(datastore.ParseListOptions(limit, offset))
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Details returns details regarding a job.
// It reads the job id from URL.
func (s *Jobs) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := uuid.Parse(vars["jobId"])
	if err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid job id"),
		})
		return
	}

	res, err := s.store.Job(id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

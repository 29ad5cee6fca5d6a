package jobs

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// Store manages data regarding jobs.
type Store interface {
	Jobs(datastore.ListOptions) ([]Job, error)
	Job(id uuid.UUID) (Job, error)
	InsertJob(*Job) error
	UpdateJob(*Job) error
}

// MemStore is an in-memory Store implementation. It keeps its own copies
// of the inserted jobs so the workers can keep mutating theirs.
type MemStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]Job
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[uuid.UUID]Job)}
}

func (s *MemStore) Jobs(o datastore.ListOptions) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first
	result := make([]Job, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.byID[s.order[i]])
	}

	return paginate(result, o), nil
}

func (s *MemStore) Job(id uuid.UUID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.byID[id]
	if !ok {
		return Job{}, errors.ErrNotFound
	}

	return job, nil
}

func (s *MemStore) InsertJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = append(s.order, job.ID)
	s.byID[job.ID] = *job

	return nil
}

func (s *MemStore) UpdateJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[job.ID] = *job

	return nil
}

func paginate(jobs []Job, o datastore.ListOptions) []Job {
	if o.Offset >= len(jobs) {
		return []Job{}
	}
	jobs = jobs[o.Offset:]
	if o.Limit > 0 && o.Limit < len(jobs) {
		jobs = jobs[:o.Limit]
	}
	return jobs
}

package transactions

import (
	"sync"

	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// Store manages the transaction log. Entries are never mutated or removed.
type Store interface {
	Transactions(datastore.ListOptions) ([]Transaction, error)
	Transaction(transactionId string) (Transaction, error)
	TransactionExists(transactionId string) bool
	InsertTransaction(tx *Transaction) error
}

// MemStore is an in-memory Store implementation.
type MemStore struct {
	mu   sync.RWMutex
	log  []Transaction
	byID map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]int)}
}

func (s *MemStore) Transactions(o datastore.ListOptions) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first
	result := make([]Transaction, 0, len(s.log))
	for i := len(s.log) - 1; i >= 0; i-- {
		result = append(result, s.log[i])
	}

	if o.Offset >= len(result) {
		return []Transaction{}, nil
	}
	result = result[o.Offset:]
	if o.Limit > 0 && o.Limit < len(result) {
		result = result[:o.Limit]
	}

	return result, nil
}

func (s *MemStore) Transaction(transactionId string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[transactionId]
	if !ok {
		return Transaction{}, errors.ErrNotFound
	}

	return s.log[i], nil
}

func (s *MemStore) TransactionExists(transactionId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[transactionId]
	return ok
}

func (s *MemStore) InsertTransaction(tx *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[tx.TransactionId]; exists {
		return errors.ErrIDGeneration
	}

	s.byID[tx.TransactionId] = len(s.log)
	s.log = append(s.log, *tx)

	return nil
}

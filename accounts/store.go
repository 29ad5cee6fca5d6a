package accounts

import (
	"sync"

	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// Store manages data regarding accounts.
type Store interface {
	// List all accounts.
	Accounts(datastore.ListOptions) ([]Account, error)

	// Get account details by wallet address.
	Account(address string) (Account, error)

	// Get account details by email.
	AccountByEmail(email string) (Account, error)

	// Insert a new account. Fails with ErrDuplicateEmail when the email
	// is already registered.
	InsertAccount(a *Account) error

	// Overwrite an existing account's state.
	SaveAccount(a *Account) error

	// Permanently delete an account.
	HardDeleteAccount(address string) error
}

// MemStore is an in-memory Store keyed by wallet address with an email
// uniqueness index, giving O(1) lookups on both keys.
type MemStore struct {
	mu      sync.RWMutex
	order   []string
	byAddr  map[string]Account
	byEmail map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		byAddr:  make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (s *MemStore) Accounts(o datastore.ListOptions) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Account, 0, len(s.order))
	for _, addr := range s.order {
		result = append(result, s.byAddr[addr])
	}

	if o.Offset >= len(result) {
		return []Account{}, nil
	}
	result = result[o.Offset:]
	if o.Limit > 0 && o.Limit < len(result) {
		result = result[:o.Limit]
	}

	return result, nil
}

func (s *MemStore) Account(address string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byAddr[address]
	if !ok {
		return Account{}, errors.ErrNotFound
	}

	return a, nil
}

func (s *MemStore) AccountByEmail(email string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.byEmail[email]
	if !ok {
		return Account{}, errors.ErrNotFound
	}

	return s.byAddr[addr], nil
}

func (s *MemStore) InsertAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[a.Email]; exists {
		return errors.ErrDuplicateEmail
	}
	if _, exists := s.byAddr[a.Address]; exists {
		return errors.ErrDuplicateEmail
	}

	s.order = append(s.order, a.Address)
	s.byAddr[a.Address] = *a
	s.byEmail[a.Email] = a.Address

	return nil
}

func (s *MemStore) SaveAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAddr[a.Address]; !exists {
		return errors.ErrNotFound
	}

	s.byAddr[a.Address] = *a

	return nil
}

func (s *MemStore) HardDeleteAccount(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.byAddr[address]
	if !exists {
		return errors.ErrNotFound
	}

	delete(s.byAddr, address)
	delete(s.byEmail, a.Email)

	for i, addr := range s.order {
		if addr == address {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

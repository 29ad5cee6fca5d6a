// Package session tracks the single active login of the process.
package session

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// Manager holds at most one active session at a time. A second login is
// rejected until the current session logs out.
type Manager struct {
	mu      sync.Mutex
	store   accounts.Store
	current string
}

func NewManager(store accounts.Store) *Manager {
	return &Manager{store: store}
}

// Login authenticates by email and password and opens the session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (m *Manager) Login(email, password string) (accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != "" {
		return accounts.Account{}, errors.ErrAlreadyLoggedIn
	}

	account, err := m.store.AccountByEmail(email)
	if err != nil {
		return accounts.Account{}, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return accounts.Account{}, errors.ErrInvalidCredentials
	}

	m.current = account.Address

	return account, nil
}

// Logout closes the active session.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == "" {
		return errors.ErrNotLoggedIn
	}

	m.current = ""

	return nil
}

// Current returns the logged-in account.
func (m *Manager) Current() (accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == "" {
		return accounts.Account{}, errors.ErrNotLoggedIn
	}

	return m.store.Account(m.current)
}

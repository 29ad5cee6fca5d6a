package session

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nft-bazaar/marketplace-api/accounts"
	marketerrors "github.com/nft-bazaar/marketplace-api/errors"
)

func testManager(t *testing.T) *Manager {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	store := accounts.NewMemStore()
	err = store.InsertAccount(&accounts.Account{
		Address:      "W1",
		Name:         "alice",
		Email:        "a@x.com",
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatal(err)
	}

	return NewManager(store)
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		m := testManager(t)

		account, err := m.Login("a@x.com", "hunter2")
		if err != nil {
			t.Fatal(err)
		}
		if account.Address != "W1" {
			t.Errorf(`expected address "W1", got %q`, account.Address)
		}

		current, err := m.Current()
		if err != nil {
			t.Fatal(err)
		}
		if current.Email != "a@x.com" {
			t.Errorf("unexpected current account: %+v", current)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		m := testManager(t)

		if _, err := m.Login("a@x.com", "wrong"); !errors.Is(err, marketerrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		m := testManager(t)

		if _, err := m.Login("nobody@x.com", "hunter2"); !errors.Is(err, marketerrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("one session at a time", func(t *testing.T) {
		m := testManager(t)

		if _, err := m.Login("a@x.com", "hunter2"); err != nil {
			t.Fatal(err)
		}
		if _, err := m.Login("a@x.com", "hunter2"); !errors.Is(err, marketerrors.ErrAlreadyLoggedIn) {
			t.Errorf("expected ErrAlreadyLoggedIn, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	m := testManager(t)

	if err := m.Logout(); !errors.Is(err, marketerrors.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}

	if _, err := m.Login("a@x.com", "hunter2"); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Current(); !errors.Is(err, marketerrors.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn after logout, got %v", err)
	}

	// Logging in again after logout works.
	if _, err := m.Login("a@x.com", "hunter2"); err != nil {
		t.Fatal(err)
	}
}

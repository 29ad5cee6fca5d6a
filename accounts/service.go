package accounts

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/configs"
	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
	"github.com/nft-bazaar/marketplace-api/jobs"
)

// Saver flushes account state to durable storage.
type Saver interface {
	SaveAccount(a *Account) error
	DeleteAccount(a *Account) error
}

// Service defines the API for account management.
type Service struct {
	store Store
	cs    chain.Service
	wp    *jobs.WorkerPool
	saver Saver
	cfg   *configs.Config
}

// NewService initiates a new account service.
func NewService(
	cfg *configs.Config,
	store Store,
	cs chain.Service,
	wp *jobs.WorkerPool,
	saver Saver,
) *Service {
	return &Service{store, cs, wp, saver, cfg}
}

// List returns all accounts in the store.
func (s *Service) List(limit, offset int) ([]Account, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.Accounts(o)
}

// Create registers a new account: provisions a wallet keypair through the
// chain service, hashes the credentials and persists the result. It runs
// as a job; pass sync to wait for completion.
func (s *Service) Create(ctx context.Context, sync bool, name, email, password string) (*jobs.Job, *Account, error) {
	if _, err := s.store.AccountByEmail(email); err == nil {
		return nil, nil, errors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	account := &Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
	}

	job, err := s.wp.AddJob(func() (string, error) {
		jobCtx := ctx
		if !sync {
			jobCtx = context.Background()
		}

		dir := filepath.Join(s.cfg.DataDir, DirName(name, email))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}

		address, err := s.cs.CreateWallet(jobCtx, filepath.Join(dir, "id.json"))
		if err != nil {
			return "", err
		}

		now := time.Now()
		account.Address = address
		account.CreatedAt = now
		account.UpdatedAt = now

		if err := s.store.InsertAccount(account); err != nil {
			return "", err
		}

		if err := s.saver.SaveAccount(account); err != nil {
			log.
				WithFields(log.Fields{"error": err, "address": address}).
				Warn("Could not persist new account")
		}

		return account.Address, nil
	})

	if err != nil {
		return nil, nil, err
	}

	err = job.Wait(sync)

	return job, account, err
}

// Details returns a specific account by wallet address.
func (s *Service) Details(address string) (Account, error) {
	return s.store.Account(address)
}

// FindByWallet is an alias of Details kept for the ledger engine's
// vocabulary.
func (s *Service) FindByWallet(address string) (Account, error) {
	return s.store.Account(address)
}

// Fund asks the network faucet to fund an account's wallet. The chain
// service throttles requests per its faucet policy.
func (s *Service) Fund(ctx context.Context, address string) error {
	if _, err := s.store.Account(address); err != nil {
		return err
	}

	return s.cs.RequestFunds(ctx, address)
}

// Delete permanently removes an account and its on-disk directory.
func (s *Service) Delete(address string) error {
	account, err := s.store.Account(address)
	if err != nil {
		return err
	}

	if err := s.store.HardDeleteAccount(address); err != nil {
		return err
	}

	if err := s.saver.DeleteAccount(&account); err != nil {
		log.
			WithFields(log.Fields{"error": err, "address": address}).
			Warn("Could not delete account directory")
	}

	return nil
}

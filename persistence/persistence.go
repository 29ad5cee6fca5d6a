// Package persistence writes the ledger to its flat-file layout: one
// directory per account plus a shared marketplace directory. Files are
// replaced atomically with a temp-file rename so a crash mid-write never
// leaves a truncated file behind.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/errors"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

const marketplaceDirName = "marketplace"

// FileStore persists accounts and marketplace state under one root
// directory. It satisfies the Saver interfaces of the accounts, nfts and
// marketplace services.
type FileStore struct {
	root string
	nfts nfts.Store
}

func NewFileStore(root string, nftStore nfts.Store) *FileStore {
	return &FileStore{root: root, nfts: nftStore}
}

// accountInfo is the persisted shape of info.json.
type accountInfo struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	WalletAddress string          `json:"walletAddress"`
	Balance       decimal.Decimal `json:"balance"`
	PasswordHash  string          `json:"passwordHash"`
}

// persistedCollection is the persisted shape of one collections.json
// entry. NFT records are materialized in full so the file is readable on
// its own.
type persistedCollection struct {
	Name    string     `json:"name"`
	Creator string     `json:"creator"`
	NFTs    []nfts.NFT `json:"nfts"`
}

func (s *FileStore) accountDir(a *accounts.Account) string {
	return filepath.Join(s.root, accounts.DirName(a.Name, a.Email))
}

// SaveAccount writes the account's directory: address.txt, balance.txt,
// info.json, collections.json and transactions.txt.
func (s *FileStore) SaveAccount(a *accounts.Account) error {
	dir := s.accountDir(a)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistErr(err)
	}

	if err := writeFileAtomic(dir, "address.txt", []byte(a.Address+"\n")); err != nil {
		return persistErr(err)
	}

	if err := writeFileAtomic(dir, "balance.txt", []byte(a.Balance.String()+"\n")); err != nil {
		return persistErr(err)
	}

	info, err := json.MarshalIndent(accountInfo{
		Name:          a.Name,
		Email:         a.Email,
		WalletAddress: a.Address,
		Balance:       a.Balance,
		PasswordHash:  a.PasswordHash,
	}, "", "  ")
	if err != nil {
		return persistErr(err)
	}
	if err := writeFileAtomic(dir, "info.json", info); err != nil {
		return persistErr(err)
	}

	collections, err := s.materializeCollections(a.Address)
	if err != nil {
		return persistErr(err)
	}
	data, err := json.MarshalIndent(collections, "", "  ")
	if err != nil {
		return persistErr(err)
	}
	if err := writeFileAtomic(dir, "collections.json", data); err != nil {
		return persistErr(err)
	}

	history := strings.Join(a.TransactionIds, "\n")
	if history != "" {
		history += "\n"
	}
	if err := writeFileAtomic(dir, "transactions.txt", []byte(history)); err != nil {
		return persistErr(err)
	}

	return nil
}

// DeleteAccount removes the account's directory and everything in it.
func (s *FileStore) DeleteAccount(a *accounts.Account) error {
	return persistErr(os.RemoveAll(s.accountDir(a)))
}

// SaveMarketplace writes the shared listing and transaction files.
func (s *FileStore) SaveMarketplace(listings []nfts.NFT, txs []transactions.Transaction) error {
	dir := filepath.Join(s.root, marketplaceDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistErr(err)
	}

	if listings == nil {
		listings = []nfts.NFT{}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return persistErr(err)
	}
	if err := writeFileAtomic(dir, "listings.json", data); err != nil {
		return persistErr(err)
	}

	if txs == nil {
		txs = []transactions.Transaction{}
	}
	data, err = json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return persistErr(err)
	}
	if err := writeFileAtomic(dir, "transactions.json", data); err != nil {
		return persistErr(err)
	}

	return nil
}

func (s *FileStore) materializeCollections(owner string) ([]persistedCollection, error) {
	cc, err := s.nfts.Collections(owner)
	if err != nil {
		return nil, err
	}

	result := make([]persistedCollection, 0, len(cc))
	for _, c := range cc {
		p := persistedCollection{Name: c.Name, Creator: c.Creator, NFTs: []nfts.NFT{}}
		for _, id := range c.TokenIds {
			n, err := s.nfts.NFT(id)
			if err != nil {
				return nil, fmt.Errorf("collection %q references %s: %w", c.Name, id, err)
			}
			p.NFTs = append(p.NFTs, n)
		}
		result = append(result, p)
	}

	return result, nil
}

// writeFileAtomic writes data to a temp file in dir and renames it over
// name.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(dir, name))
}

func persistErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errors.ErrPersistence, err)
}

package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

// LoadAccounts restores all account directories under the root into the
// account store, rebuilding the canonical NFT records and collections
// along the way. Directories that cannot be parsed are logged and
// skipped; one corrupt account does not keep the rest from loading.
func (s *FileStore) LoadAccounts(store accounts.Store) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return persistErr(err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == marketplaceDirName {
			continue
		}

		dir := filepath.Join(s.root, entry.Name())
		account, err := s.loadAccount(dir)
		if err != nil {
			log.
				WithFields(log.Fields{"error": err, "dir": entry.Name()}).
				Warn("Skipping unreadable account directory")
			continue
		}

		if err := store.InsertAccount(account); err != nil {
			log.
				WithFields(log.Fields{"error": err, "dir": entry.Name()}).
				Warn("Skipping conflicting account directory")
		}
	}

	return nil
}

func (s *FileStore) loadAccount(dir string) (*accounts.Account, error) {
	data, err := os.ReadFile(filepath.Join(dir, "info.json"))
	if err != nil {
		return nil, err
	}

	var info accountInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}

	account := &accounts.Account{
		Address:      info.WalletAddress,
		Name:         info.Name,
		Email:        info.Email,
		PasswordHash: info.PasswordHash,
		Balance:      info.Balance,
	}

	if err := s.loadCollections(dir, account); err != nil {
		return nil, err
	}

	history, err := os.ReadFile(filepath.Join(dir, "transactions.txt"))
	if err == nil {
		for _, line := range strings.Split(string(history), "\n") {
			if id := strings.TrimSpace(line); id != "" {
				account.AddTransaction(id)
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return account, nil
}

func (s *FileStore) loadCollections(dir string, account *accounts.Account) error {
	data, err := os.ReadFile(filepath.Join(dir, "collections.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var persisted []persistedCollection
	if err := json.Unmarshal(data, &persisted); err != nil {
		return err
	}

	for _, p := range persisted {
		c := nfts.Collection{
			Name:    p.Name,
			Creator: p.Creator,
			Owner:   account.Address,
		}

		for i := range p.NFTs {
			n := p.NFTs[i]
			if !s.nfts.TokenExists(n.TokenId) {
				if err := s.nfts.InsertNFT(&n); err != nil {
					return err
				}
			}
			c.TokenIds = append(c.TokenIds, n.TokenId)
			if n.Owner == account.Address {
				account.AddToken(n.TokenId)
			}
		}

		if err := s.nfts.InsertCollection(&c); err != nil {
			return err
		}
	}

	return nil
}

// LoadMarketplace restores the shared marketplace files. Listed NFTs not
// referenced by any collection get their canonical record created here,
// and their owners' owned sets are completed. The returned token ids seed
// the listing set.
func (s *FileStore) LoadMarketplace(accountStore accounts.Store, txStore transactions.Store) ([]string, error) {
	dir := filepath.Join(s.root, marketplaceDirName)

	var listed []string
	data, err := os.ReadFile(filepath.Join(dir, "listings.json"))
	if err == nil {
		var listings []nfts.NFT
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, persistErr(err)
		}

		for i := range listings {
			n := listings[i]
			n.Listed = true
			if s.nfts.TokenExists(n.TokenId) {
				if err := s.nfts.UpdateNFT(&n); err != nil {
					return nil, persistErr(err)
				}
			} else if err := s.nfts.InsertNFT(&n); err != nil {
				return nil, persistErr(err)
			}

			if owner, err := accountStore.Account(n.Owner); err == nil && !owner.OwnsToken(n.TokenId) {
				owner.AddToken(n.TokenId)
				if err := accountStore.SaveAccount(&owner); err != nil {
					return nil, persistErr(err)
				}
			}

			listed = append(listed, n.TokenId)
		}
	} else if !os.IsNotExist(err) {
		return nil, persistErr(err)
	}

	data, err = os.ReadFile(filepath.Join(dir, "transactions.json"))
	if err == nil {
		var txs []transactions.Transaction
		if err := json.Unmarshal(data, &txs); err != nil {
			return nil, persistErr(err)
		}
		for i := range txs {
			if err := txStore.InsertTransaction(&txs[i]); err != nil {
				return nil, persistErr(err)
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, persistErr(err)
	}

	return listed, nil
}

// Package accounts provides account management for the marketplace ledger.
package accounts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a marketplace account. The wallet address is the
// primary key; the email address is unique across accounts.
//
// Owned NFTs and collections are held as references only: the canonical
// NFT records live in the nfts package, keyed by token id.
type Account struct {
	Address      string          `json:"walletAddress"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`

	// TransactionIds is the append-only purchase history of the account.
	TransactionIds []string `json:"-"`

	// OwnedTokens holds the token ids of NFTs owned by this account.
	OwnedTokens []string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnsToken reports whether the account's owned set contains tokenId.
func (a *Account) OwnsToken(tokenId string) bool {
	for _, id := range a.OwnedTokens {
		if id == tokenId {
			return true
		}
	}
	return false
}

// AddToken appends tokenId to the owned set, once.
func (a *Account) AddToken(tokenId string) {
	if a.OwnsToken(tokenId) {
		return
	}
	a.OwnedTokens = append(a.OwnedTokens, tokenId)
}

// RemoveToken removes tokenId from the owned set. The original slice is
// left untouched so copies handed out by the store do not alias.
func (a *Account) RemoveToken(tokenId string) {
	result := make([]string, 0, len(a.OwnedTokens))
	for _, id := range a.OwnedTokens {
		if id != tokenId {
			result = append(result, id)
		}
	}
	a.OwnedTokens = result
}

// AddTransaction appends a transaction id to the account's history.
func (a *Account) AddTransaction(transactionId string) {
	a.TransactionIds = append(a.TransactionIds, transactionId)
}

// DirName derives the on-disk directory name for an account from its name
// and email, with '@' and '.' replaced so the result is path-safe.
func DirName(name, email string) string {
	replacer := strings.NewReplacer("@", "_", ".", "_", "/", "_", " ", "_")
	return replacer.Replace(name) + "_" + replacer.Replace(email)
}

// Package nfts holds the canonical NFT and collection records.
//
// An NFT is stored exactly once, keyed by token id. Accounts, collections
// and the marketplace listing set reference it by token id only, so there
// is a single place where owner, price and listing status live.
package nfts

import (
	"crypto/rand"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// TokenIdPrefix is the fixed prefix of every token id.
const TokenIdPrefix = "NFT-"

// maxIdAttempts bounds the collision retries of id generation.
const maxIdAttempts = 10

// NFT is the canonical record of a minted token. JSON tags match the
// persisted collections.json / listings.json field names.
type NFT struct {
	TokenId     string          `json:"tokenId"`
	Name        string          `json:"name"`
	Owner       string          `json:"owner"`
	Price       decimal.Decimal `json:"price"`
	Listed      bool            `json:"isListed"`
	MintAddress string          `json:"mintAddress"`
	MetadataURI string          `json:"metadataUri"`
}

// Collection groups NFTs by token id. Collection names are unique within
// one account's collection list only, not globally.
type Collection struct {
	Name     string   `json:"name"`
	Creator  string   `json:"creator"`
	Owner    string   `json:"-"`
	TokenIds []string `json:"-"`
}

// Contains reports whether the collection references tokenId.
func (c *Collection) Contains(tokenId string) bool {
	for _, id := range c.TokenIds {
		if id == tokenId {
			return true
		}
	}
	return false
}

// Remove drops tokenId from the collection without touching the original
// backing array.
func (c *Collection) Remove(tokenId string) {
	result := make([]string, 0, len(c.TokenIds))
	for _, id := range c.TokenIds {
		if id != tokenId {
			result = append(result, id)
		}
	}
	c.TokenIds = result
}

// GenerateTokenId draws a new token id (fixed prefix plus six uppercase
// hex characters) and verifies it against `exists`, retrying a bounded
// number of times on collision.
func GenerateTokenId(exists func(string) bool) (string, error) {
	return generateId(TokenIdPrefix, exists)
}

func generateId(prefix string, exists func(string) bool) (string, error) {
	for attempt := 0; attempt < maxIdAttempts; attempt++ {
		var b [3]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}

		id := fmt.Sprintf("%s%02X%02X%02X", prefix, b[0], b[1], b[2])
		if exists == nil || !exists(id) {
			return id, nil
		}
	}

	return "", errors.ErrIDGeneration
}

// Package transactions keeps the append-only purchase log.
package transactions

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// TransactionIdPrefix is the fixed prefix of every transaction id.
const TransactionIdPrefix = "TX-"

const maxIdAttempts = 10

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Transaction records one completed purchase. Immutable once recorded.
type Transaction struct {
	TransactionId string          `json:"transactionId"`
	TokenId       string          `json:"tokenId"`
	Seller        string          `json:"seller"`
	Buyer         string          `json:"buyer"`
	Price         decimal.Decimal `json:"price"`
	Fee           decimal.Decimal `json:"fee"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        Status          `json:"status"`
}

// New constructs a Completed transaction with a fresh id. The id is
// verified against `exists` and redrawn on collision, a bounded number of
// times.
func New(exists func(string) bool, tokenId, seller, buyer string, price, fee decimal.Decimal) (Transaction, error) {
	id, err := generateTransactionId(exists)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		TransactionId: id,
		TokenId:       tokenId,
		Seller:        seller,
		Buyer:         buyer,
		Price:         price,
		Fee:           fee,
		Timestamp:     time.Now(),
		Status:        StatusCompleted,
	}, nil
}

func generateTransactionId(exists func(string) bool) (string, error) {
	for attempt := 0; attempt < maxIdAttempts; attempt++ {
		var b [3]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}

		id := fmt.Sprintf("%s%02X%02X%02X", TransactionIdPrefix, b[0], b[1], b[2])
		if exists == nil || !exists(id) {
			return id, nil
		}
	}

	return "", errors.ErrIDGeneration
}

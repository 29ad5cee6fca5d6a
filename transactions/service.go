package transactions

import (
	goerrors "errors"

	"github.com/nft-bazaar/marketplace-api/datastore"
	"github.com/nft-bazaar/marketplace-api/errors"
)

// Service defines the API for the transaction log.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store}
}

// List returns recorded transactions, newest first.
func (s *Service) List(limit, offset int) ([]Transaction, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.Transactions(o)
}

// ForAccount resolves a transaction-id history into full records, newest
// first. Ids with no matching record are skipped.
func (s *Service) ForAccount(ids []string) ([]Transaction, error) {
	result := make([]Transaction, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		tx, err := s.store.Transaction(ids[i])
		if err != nil {
			if goerrors.Is(err, errors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, tx)
	}

	return result, nil
}

// Details returns one transaction by id.
func (s *Service) Details(transactionId string) (Transaction, error) {
	return s.store.Transaction(transactionId)
}

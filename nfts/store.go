package nfts

import (
	"sync"

	"github.com/nft-bazaar/marketplace-api/errors"
)

// Store manages the canonical NFT records and per-account collections.
type Store interface {
	// Get one NFT by token id.
	NFT(tokenId string) (NFT, error)

	// List the canonical records for an owner's tokens, in mint order.
	NFTs(owner string) ([]NFT, error)

	// TokenExists reports whether a token id is taken.
	TokenExists(tokenId string) bool

	// Insert a newly minted NFT.
	InsertNFT(n *NFT) error

	// Overwrite an existing NFT's state.
	UpdateNFT(n *NFT) error

	// Collections of an account, in creation order.
	Collections(owner string) ([]Collection, error)

	// One collection of an account by name.
	Collection(owner, name string) (Collection, error)

	// Insert a new collection. Duplicate names within one account fail
	// with ErrDuplicateName.
	InsertCollection(c *Collection) error

	// Overwrite an existing collection.
	UpdateCollection(c *Collection) error
}

// MemStore is an in-memory Store implementation.
type MemStore struct {
	mu          sync.RWMutex
	order       []string
	byToken     map[string]NFT
	collections map[string][]Collection
}

func NewMemStore() *MemStore {
	return &MemStore{
		byToken:     make(map[string]NFT),
		collections: make(map[string][]Collection),
	}
}

func (s *MemStore) NFT(tokenId string) (NFT, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byToken[tokenId]
	if !ok {
		return NFT{}, errors.ErrNotFound
	}

	return n, nil
}

func (s *MemStore) NFTs(owner string) ([]NFT, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []NFT
	for _, id := range s.order {
		n := s.byToken[id]
		if n.Owner == owner {
			result = append(result, n)
		}
	}

	return result, nil
}

func (s *MemStore) TokenExists(tokenId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byToken[tokenId]
	return ok
}

func (s *MemStore) InsertNFT(n *NFT) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[n.TokenId]; exists {
		return errors.ErrIDGeneration
	}

	s.order = append(s.order, n.TokenId)
	s.byToken[n.TokenId] = *n

	return nil
}

func (s *MemStore) UpdateNFT(n *NFT) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[n.TokenId]; !exists {
		return errors.ErrNotFound
	}

	s.byToken[n.TokenId] = *n

	return nil
}

func (s *MemStore) Collections(owner string) ([]Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cc := s.collections[owner]
	result := make([]Collection, len(cc))
	copy(result, cc)

	return result, nil
}

func (s *MemStore) Collection(owner, name string) (Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.collections[owner] {
		if c.Name == name {
			return c, nil
		}
	}

	return Collection{}, errors.ErrNotFound
}

func (s *MemStore) InsertCollection(c *Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.collections[c.Owner] {
		if existing.Name == c.Name {
			return errors.ErrDuplicateName
		}
	}

	s.collections[c.Owner] = append(s.collections[c.Owner], *c)

	return nil
}

func (s *MemStore) UpdateCollection(c *Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc := s.collections[c.Owner]
	for i, existing := range cc {
		if existing.Name == c.Name {
			cc[i] = *c
			return nil
		}
	}

	return errors.ErrNotFound
}

package storage

import (
	"sync"

	"github.com/google/uuid"
)

// KeyStore maps SHA-256 key hashes to the account that owns them. Raw
// keys are never stored.
type KeyStore struct {
	mu   sync.Mutex
	keys map[string]uuid.UUID
}

func NewKeyStore() *KeyStore {
	return &KeyStore{keys: make(map[string]uuid.UUID)}
}

// Save registers a key hash for an account.
func (s *KeyStore) Save(keyHash string, accountID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[keyHash] = accountID
}

// AccountForHash resolves a key hash to its account.
func (s *KeyStore) AccountForHash(keyHash string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[keyHash]
	return id, ok
}

package storage

import "sync"

// KeyStore holds API key hashes in memory, keyed by the SHA256 digest of
// the real key so lookups never touch plain text.
type KeyStore struct {
	mu     sync.RWMutex
	byHash map[string]string // key hash -> account id
}

func NewKeyStore() *KeyStore {
	return &KeyStore{byHash: make(map[string]string)}
}

// Save registers a key hash for an account. An account may hold several
// keys at once; old keys keep working until the process restarts.
func (s *KeyStore) Save(accountID, keyHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[keyHash] = accountID
}

// Lookup resolves a key hash to the owning account id.
func (s *KeyStore) Lookup(keyHash string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[keyHash]
	return id, ok
}

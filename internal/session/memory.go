package session

import "sync"

// MemoryStore holds credentials in process memory. It backs the
// simulated composition and tests; nothing survives a restart.
type MemoryStore struct {
	mu    sync.Mutex
	creds Credentials
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemoryStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}

func (s *MemoryStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Access != ""
}

package session

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// KeyringStore keeps the credential pair in the system keyring, with a
// file backend as the portable fallback.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the keyring under the given service name. fileDir
// is only used when no native backend is available.
func OpenKeyring(service, fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// Load returns the stored credential pair. Missing entries yield zero
// values rather than errors.
func (s *KeyringStore) Load() (Credentials, error) {
	var creds Credentials

	access, err := s.get(accessTokenKey)
	if err != nil {
		return Credentials{}, err
	}
	refresh, err := s.get(refreshTokenKey)
	if err != nil {
		return Credentials{}, err
	}

	creds.Access = access
	creds.Refresh = refresh
	return creds, nil
}

// Save replaces both stored tokens.
func (s *KeyringStore) Save(creds Credentials) error {
	if err := s.set(accessTokenKey, creds.Access); err != nil {
		return err
	}
	return s.set(refreshTokenKey, creds.Refresh)
}

// Clear removes both tokens. Clearing an empty store is not an error.
func (s *KeyringStore) Clear() error {
	if err := s.remove(accessTokenKey); err != nil {
		return err
	}
	return s.remove(refreshTokenKey)
}

// Authenticated reports whether an access token is present.
func (s *KeyringStore) Authenticated() bool {
	access, err := s.get(accessTokenKey)
	return err == nil && access != ""
}

func (s *KeyringStore) get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (s *KeyringStore) set(key, value string) error {
	err := s.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) remove(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fernet/fernet-go"
)

// Tokens holds the credential pair issued by the backend of record.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store holds the session tokens for the current user and persists them to a
// single fernet-encrypted file. The tokens are the only client state that
// survives a restart; everything else is refetched from the backend.
//
// The store is safe for concurrent use. A cleared store is valid and simply
// has no tokens.
type Store struct {
	path string
	key  *fernet.Key

	mu     sync.RWMutex
	tokens Tokens
}

// NewStore creates a token store backed by the file at path, encrypted with
// the given base64 fernet key. An empty key generates a random one, which
// makes any previously persisted tokens unreadable (they are discarded).
//
// If the file exists and decrypts, the persisted tokens are loaded.
func NewStore(path, key string) (*Store, error) {
	s := &Store{path: path}

	if key == "" {
		k := new(fernet.Key)
		if err := k.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		s.key = k
	} else {
		k, err := fernet.DecodeKey(key)
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
		s.key = k
	}

	s.load()
	return s, nil
}

// load reads previously persisted tokens. Any failure (missing file, bad
// ciphertext, stale key) leaves the store empty.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	plain := fernet.VerifyAndDecrypt(data, 0, []*fernet.Key{s.key})
	if plain == nil {
		return
	}

	var tokens Tokens
	if err := json.Unmarshal(plain, &tokens); err != nil {
		return
	}
	s.tokens = tokens
}

// Set stores a new token pair and persists it.
func (s *Store) Set(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = tokens

	plain, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	sealed, err := fernet.EncryptAndSign(plain, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt tokens: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	return nil
}

// Access returns the current access token, or "" when no session is active.
func (s *Store) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

// Tokens returns a copy of the current token pair.
func (s *Store) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// Active reports whether an access token is present.
func (s *Store) Active() bool {
	return s.Access() != ""
}

// Clear removes the tokens from memory and from disk. Called on logout and on
// authentication failure.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = Tokens{}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

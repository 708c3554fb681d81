package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore loads and persists the registry API token.
// Different implementations can read from the environment, a file, or memory.
type TokenStore interface {
	// Load returns the active token, or ErrNoToken if none is available
	Load() (token string, err error)

	// Save persists token, replacing any previous one
	Save(token string) error
}

// TokenSource names where a loaded token came from.
type TokenSource string

const (
	SourceEnv    TokenSource = "env"
	SourceFile   TokenSource = "file"
	SourceMemory TokenSource = "memory"
)

// Sourcer is implemented by stores that can report where their token lives.
type Sourcer interface {
	Source() (TokenSource, string)
}

// FileTokenStore keeps the token as plaintext in a single file.
type FileTokenStore struct {
	Path string
}

// NewFileTokenStore creates a file-backed store at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// Load reads the token file, trimming surrounding whitespace.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save writes token exactly as given, owner-readable only, via a temp file
// and rename.
func (f *FileTokenStore) Save(token string) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Source implements Sourcer.
func (f *FileTokenStore) Source() (TokenSource, string) {
	return SourceFile, f.Path
}

// EnvTokenStore prefers the token in environment variable Var and falls
// back to Next. Saves always go to Next.
type EnvTokenStore struct {
	Var  string
	Next TokenStore
}

// Load returns $Var when set and non-empty, otherwise Next.Load().
func (e *EnvTokenStore) Load() (string, error) {
	if token := strings.TrimSpace(os.Getenv(e.Var)); token != "" {
		return token, nil
	}
	if e.Next == nil {
		return "", ErrNoToken
	}
	return e.Next.Load()
}

// Save persists to Next. The environment is never modified.
func (e *EnvTokenStore) Save(token string) error {
	if e.Next == nil {
		return fmt.Errorf("no persistent token store configured")
	}
	return e.Next.Save(token)
}

// Source implements Sourcer.
func (e *EnvTokenStore) Source() (TokenSource, string) {
	if strings.TrimSpace(os.Getenv(e.Var)) != "" {
		return SourceEnv, e.Var
	}
	if s, ok := e.Next.(Sourcer); ok {
		return s.Source()
	}
	return "", ""
}

// MemoryTokenStore holds the token in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	saves int
}

// NewMemoryTokenStore creates a store preloaded with token (may be empty).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryTokenStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Source implements Sourcer.
func (m *MemoryTokenStore) Source() (TokenSource, string) {
	return SourceMemory, ""
}

// TokenPreview returns the first n characters of token followed by "..."
// for display and logs. Tokens no longer than n are still truncated to
// half their length so the full value is never shown.
func TokenPreview(token string, n int) string {
	runes := []rune(token)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return string(runes[:len(runes)/2]) + "..."
}

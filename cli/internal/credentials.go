package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devilmonastery/openproof/internal/client"
)

const (
	// TokenEnvVar overrides the saved token entirely when set
	TokenEnvVar = "OPENPROOF_TOKEN"

	tokenFileName = ".openproof_token"
)

// DefaultTokenPath returns the path of the token file in the user's home
// directory.
func DefaultTokenPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, tokenFileName), nil
}

// NewTokenStore returns the store every command uses: the environment
// variable first, then the token file at path.
func NewTokenStore(path string) client.TokenStore {
	return &client.EnvTokenStore{
		Var:  TokenEnvVar,
		Next: client.NewFileTokenStore(path),
	}
}

// tokenSource describes where store's token comes from, e.g.
// "environment variable OPENPROOF_TOKEN" or "file /home/u/.openproof_token".
func tokenSource(store client.TokenStore) string {
	s, ok := store.(client.Sourcer)
	if !ok {
		return "unknown"
	}
	source, where := s.Source()
	switch source {
	case client.SourceEnv:
		return "environment variable " + where
	case client.SourceFile:
		return "file " + where
	case client.SourceMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// tokenFilePath returns the file a store persists to, if any.
func tokenFilePath(store client.TokenStore) string {
	switch s := store.(type) {
	case *client.FileTokenStore:
		return s.Path
	case *client.EnvTokenStore:
		return tokenFilePath(s.Next)
	default:
		return ""
	}
}

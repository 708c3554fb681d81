package cli

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devilmonastery/openproof/internal/client"
)

// newTestCliContext wires a CliContext to a test registry with an in-memory
// token store.
func newTestCliContext(t *testing.T, handler http.HandlerFunc, token string) (*CliContext, *client.MemoryTokenStore, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var stdout, stderr bytes.Buffer
	tokens := client.NewMemoryTokenStore(token)
	cc := &CliContext{
		Client: client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}),
		Tokens: tokens,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		WebURL: "https://openproof.dev",
		Out:    &stdout,
		Err:    &stderr,
	}
	return cc, tokens, &stdout, &stderr
}

// isolateHome points HOME at a fresh directory and clears the variables
// that would leak the developer's own setup into a test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(TokenEnvVar, "")
	t.Setenv(ServerEnvVar, "")
	t.Setenv(ConfigEnvVar, "")
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

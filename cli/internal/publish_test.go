package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/devilmonastery/openproof/internal/client"
)

func TestRunPublish_SendsContentVerbatim(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		response    string
		wantWarning string
		wantURL     string
	}{
		{
			name:     "yaml frontmatter",
			content:  "---\ntitle: Hello World\n---\n# Hello\n",
			response: `{"id":"doc-1","slug":"hello-world"}`,
			wantURL:  "https://openproof.dev/docs/hello-world",
		},
		{
			name:        "no frontmatter",
			content:     "# Just a heading\n\nbody\n",
			response:    `{"id":"doc-2"}`,
			wantWarning: "does not start with '---'",
			wantURL:     "https://openproof.dev/docs/doc-2",
		},
		{
			name:        "toml frontmatter",
			content:     "+++\ntitle = \"Hello\"\n+++\nbody\n",
			response:    `{"id":7,"slug":"hello"}`,
			wantWarning: "has TOML frontmatter",
			wantURL:     "https://openproof.dev/docs/hello",
		},
		{
			name:        "invalid yaml",
			content:     "---\ntitle: [unclosed\n---\nbody\n",
			response:    `{"slug":"broken"}`,
			wantWarning: "could not be parsed",
			wantURL:     "https://openproof.dev/docs/broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body, auth string
			cc, _, stdout, stderr := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				body = string(b)
				auth = r.Header.Get("Authorization")
				io.WriteString(w, tt.response)
			}, "tok-123")

			path := writeFile(t, t.TempDir(), "article.md", tt.content)
			if err := runPublish(context.Background(), cc, path, false); err != nil {
				t.Fatalf("runPublish() error = %v", err)
			}

			if body != tt.content {
				t.Errorf("body = %q, want %q", body, tt.content)
			}
			if auth != "Bearer tok-123" {
				t.Errorf("Authorization = %q, want Bearer tok-123", auth)
			}
			if !strings.Contains(stdout.String(), tt.wantURL) {
				t.Errorf("stdout = %q, want URL %s", stdout.String(), tt.wantURL)
			}
			if tt.wantWarning == "" {
				if stderr.Len() != 0 {
					t.Errorf("unexpected stderr %q", stderr.String())
				}
			} else if !strings.Contains(stderr.String(), tt.wantWarning) {
				t.Errorf("stderr = %q, want warning containing %q", stderr.String(), tt.wantWarning)
			}
			if strings.Contains(stdout.String(), "Warning") {
				t.Errorf("warnings belong on stderr, stdout = %q", stdout.String())
			}
		})
	}
}

func TestRunPublish_NoTokenFailsBeforeRequest(t *testing.T) {
	calls := 0
	cc, _, _, _ := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, "")

	path := writeFile(t, t.TempDir(), "article.md", "---\ntitle: x\n---\n")
	err := runPublish(context.Background(), cc, path, false)
	if !errors.Is(err, client.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestRunPublish_MissingFile(t *testing.T) {
	calls := 0
	cc, _, _, _ := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, "tok")

	err := runPublish(context.Background(), cc, filepath.Join(t.TempDir(), "nope.md"), false)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestRunPublish_Rejected(t *testing.T) {
	cc, _, stdout, _ := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"missing frontmatter"}`)
	}, "tok")

	path := writeFile(t, t.TempDir(), "article.md", "no frontmatter")
	err := runPublish(context.Background(), cc, path, false)
	if code := ExitCode(err); code != ExitRemoteRejected {
		t.Fatalf("ExitCode = %d, want %d (err = %v)", code, ExitRemoteRejected, err)
	}
	if !strings.Contains(err.Error(), `{"error":"missing frontmatter"}`) {
		t.Errorf("error should carry the raw body, got %q", err.Error())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty on failure, got %q", stdout.String())
	}
}

func TestRunPublish_DryRun(t *testing.T) {
	calls := 0
	cc, _, stdout, _ := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, "")

	content := "---\ntitle: Zero Knowledge, Explained\ntype: paper\ntags: [zk, Proofs]\n---\nbody\n"
	path := writeFile(t, t.TempDir(), "article.md", content)
	if err := runPublish(context.Background(), cc, path, true); err != nil {
		t.Fatalf("runPublish() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("dry run made %d requests", calls)
	}

	out := stdout.String()
	for _, want := range []string{
		"Title: Zero Knowledge, Explained",
		"Type:  paper",
		"Slug:  zero-knowledge-explained",
		"Tags:  proofs, zk",
		"Size:  " + strconv.Itoa(len(content)) + " bytes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPublish_BadWebURLStillReportsID(t *testing.T) {
	cc, _, stdout, stderr := newTestCliContext(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"doc-9","slug":"hello"}`)
	}, "tok")
	cc.WebURL = "registry.local"

	path := writeFile(t, t.TempDir(), "article.md", "---\ntitle: Hello\n---\n")
	if err := runPublish(context.Background(), cc, path, false); err != nil {
		t.Fatalf("runPublish() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "ID:   doc-9") {
		t.Errorf("stdout = %q, want the document id", stdout.String())
	}
	if strings.Contains(stdout.String(), "URL:") {
		t.Errorf("stdout = %q, want no URL line", stdout.String())
	}
	if !strings.Contains(stderr.String(), "could not build document URL") {
		t.Errorf("stderr = %q, want a URL warning", stderr.String())
	}
}

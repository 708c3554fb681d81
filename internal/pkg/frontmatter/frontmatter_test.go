package frontmatter

import (
	"errors"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{name: "yaml", content: "---\ntitle: A\n---\nbody", want: YAML},
		{name: "toml", content: "+++\ntitle = \"A\"\n+++\nbody", want: TOML},
		{name: "json", content: "\n{\"title\": \"A\"}\nbody", want: JSON},
		{name: "plain markdown", content: "# Heading\n\ntext", want: None},
		{name: "leading blank line hides yaml", content: "\n---\ntitle: A\n---\n", want: None},
		{name: "empty", content: "", want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.content); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasYAMLDelimiter(t *testing.T) {
	if !HasYAMLDelimiter("---\ntitle: x\n---\n") {
		t.Error("expected YAML delimiter to be detected")
	}
	if HasYAMLDelimiter("# No frontmatter") {
		t.Error("expected no YAML delimiter")
	}
}

func TestParse_YAML(t *testing.T) {
	doc, err := Parse("---\ntitle: Proof of Work\ntype: paper\ntags: [a, b]\n---\n# Intro\n\nBody --- with dashes\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Format != YAML {
		t.Errorf("Format = %q, want yaml", doc.Format)
	}
	if doc.Title() != "Proof of Work" {
		t.Errorf("Title() = %q, want Proof of Work", doc.Title())
	}
	if doc.Type() != "paper" {
		t.Errorf("Type() = %q, want paper", doc.Type())
	}
	if doc.Body != "# Intro\n\nBody --- with dashes\n" {
		t.Errorf("Body = %q", doc.Body)
	}
	if doc.Slug() != "proof-of-work" {
		t.Errorf("Slug() = %q, want proof-of-work", doc.Slug())
	}
}

func TestParse_CRLF(t *testing.T) {
	doc, err := Parse("---\r\ntitle: Windows\r\n---\r\nbody\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title() != "Windows" {
		t.Errorf("Title() = %q, want Windows", doc.Title())
	}
}

func TestParse_TOML(t *testing.T) {
	doc, err := Parse("+++\ntitle = \"Toml Title\"\nslug = \"custom\"\n+++\nbody\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Format != TOML {
		t.Errorf("Format = %q, want toml", doc.Format)
	}
	if doc.Title() != "Toml Title" {
		t.Errorf("Title() = %q, want Toml Title", doc.Title())
	}
	if doc.Slug() != "custom" {
		t.Errorf("Slug() = %q, want explicit slug", doc.Slug())
	}
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse("{\"title\": \"Json Title\"}\nbody text\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Format != JSON {
		t.Errorf("Format = %q, want json", doc.Format)
	}
	if doc.Title() != "Json Title" {
		t.Errorf("Title() = %q", doc.Title())
	}
	if doc.Body != "body text\n" {
		t.Errorf("Body = %q, want body text", doc.Body)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "none", content: "# plain", target: ErrNoFrontmatter},
		{name: "unterminated", content: "---\ntitle: x\nno end", target: ErrUnterminated},
		{name: "delimiter with trailing text", content: "---title\n---\n", target: ErrUnterminated},
		{name: "invalid yaml", content: "---\ntitle: [unclosed\n---\n"},
		{name: "scalar yaml", content: "---\njust words\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestTitle_FallsBackToHeading(t *testing.T) {
	doc, err := Parse("---\nauthor: me\n---\n\n# From Heading\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title() != "From Heading" {
		t.Errorf("Title() = %q, want From Heading", doc.Title())
	}
	if doc.Type() != "article" {
		t.Errorf("Type() = %q, want article default", doc.Type())
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hello World", want: "hello-world"},
		{in: "  Proofs & Lemmas  ", want: "proofs-and-lemmas"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "yaml list",
			content: "---\ntags: [ZK, lattices, zk]\n---\nbody #ignored\n",
			want:    []string{"lattices", "zk"},
		},
		{
			name:    "comma separated",
			content: "---\ntags: \"crypto, proofs\"\n---\n",
			want:    []string{"crypto", "proofs"},
		},
		{
			name:    "hashtags in body",
			content: "---\ntitle: x\n---\nNotes on #SNARKs and #starks\n",
			want:    []string{"snarks", "starks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.content)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := doc.Tags()
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}

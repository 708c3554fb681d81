// Package frontmatter detects and parses the metadata block at the top of a
// markdown article. The registry expects YAML frontmatter delimited by
// "---" lines; TOML ("+++") and JSON ("{") blocks are recognized so callers
// can say what they found instead.
package frontmatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/devilmonastery/openproof/internal/pkg/textutil"
)

// Format identifies a frontmatter syntax.
type Format string

const (
	None Format = ""
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var (
	// ErrNoFrontmatter is returned by Parse when content has no recognizable block.
	ErrNoFrontmatter = errors.New("no frontmatter")

	// ErrUnterminated is returned when the opening delimiter has no closing line.
	ErrUnterminated = errors.New("frontmatter block is not terminated")
)

// Document is an article split into metadata and body.
type Document struct {
	Format Format
	Fields map[string]any
	Body   string
}

// HasYAMLDelimiter reports whether content begins with the YAML frontmatter
// delimiter. This is the registry's own acceptance heuristic.
func HasYAMLDelimiter(content string) bool {
	return strings.HasPrefix(content, yamlDelimiter)
}

// Detect returns the frontmatter format content appears to start with,
// without parsing it.
func Detect(content string) Format {
	switch {
	case strings.HasPrefix(content, yamlDelimiter):
		return YAML
	case strings.HasPrefix(content, tomlDelimiter):
		return TOML
	case strings.HasPrefix(strings.TrimSpace(content), "{"):
		return JSON
	default:
		return None
	}
}

// Parse splits content into frontmatter fields and body.
func Parse(content string) (*Document, error) {
	format := Detect(content)
	switch format {
	case YAML, TOML:
		delim := yamlDelimiter
		if format == TOML {
			delim = tomlDelimiter
		}
		block, body, err := splitDelimited(content, delim)
		if err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if format == YAML {
			err = yaml.Unmarshal([]byte(block), &fields)
		} else {
			err = toml.Unmarshal([]byte(block), &fields)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid %s frontmatter: %w", format, err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
		return &Document{Format: format, Fields: fields, Body: body}, nil

	case JSON:
		trimmed := strings.TrimLeft(content, " \t\r\n")
		dec := json.NewDecoder(strings.NewReader(trimmed))
		fields := map[string]any{}
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("invalid json frontmatter: %w", err)
		}
		body := strings.TrimLeft(trimmed[dec.InputOffset():], "\r\n")
		return &Document{Format: JSON, Fields: fields, Body: body}, nil
	}
	return nil, ErrNoFrontmatter
}

// splitDelimited returns the text between the opening delimiter line and the
// next line consisting solely of delim, and everything after it.
func splitDelimited(content, delim string) (block, body string, err error) {
	firstNL := strings.IndexByte(content, '\n')
	if firstNL < 0 || strings.TrimRight(content[:firstNL], "\r \t") != delim {
		return "", "", ErrUnterminated
	}
	rest := content[firstNL+1:]

	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		var line string
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, "\r \t") == delim {
			block = rest[:offset]
			if end < 0 {
				return block, "", nil
			}
			return block, rest[offset+end+1:], nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return "", "", ErrUnterminated
}

// Title returns the "title" field, or the first level-one heading of the body.
func (d *Document) Title() string {
	if t, ok := d.Fields["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return FirstHeading(d.Body)
}

// Type returns the "type" field, defaulting to "article".
func (d *Document) Type() string {
	if t, ok := d.Fields["type"].(string); ok && t != "" {
		return t
	}
	return "article"
}

// Tags returns the "tags" field, given as a list or a comma-separated
// string, or else the hashtags used in the body.
func (d *Document) Tags() []string {
	switch v := d.Fields["tags"].(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return textutil.NormalizeTags(tags)
	case string:
		return textutil.NormalizeTags(strings.Split(v, ","))
	}
	return textutil.ExtractHashtags(d.Body)
}

// FirstHeading returns the text of the first "# " heading in markdown.
func FirstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// Slug derives the URL slug a title would most likely be published under.
// An explicit "slug" field wins.
func (d *Document) Slug() string {
	if s, ok := d.Fields["slug"].(string); ok && s != "" {
		return s
	}
	return Slug(d.Title())
}

// Slug converts a title into a URL slug.
func Slug(title string) string {
	return slug.Make(title)
}

// Describe names a format for user-facing messages.
func Describe(f Format) string {
	switch f {
	case YAML:
		return "YAML"
	case TOML:
		return "TOML"
	case JSON:
		return "JSON"
	default:
		return "unknown"
	}
}

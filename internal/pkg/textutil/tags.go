package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// hashtagRegex matches hashtags with alphanumeric characters, underscores, and hyphens.
// A hashtag must start a word so anchors like "page#section" are ignored.
var hashtagRegex = regexp.MustCompile(`(?:^|[\s(])#([\w-]+)`)

// ExtractHashtags parses hashtags from markdown prose, skipping fenced code
// blocks and inline code. Returns a sorted list of unique lowercase tags.
func ExtractHashtags(markdown string) []string {
	var tags []string
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, match := range hashtagRegex.FindAllStringSubmatch(stripInlineCode(line), -1) {
			tags = append(tags, match[1])
		}
	}
	return NormalizeTags(tags)
}

// NormalizeTags lowercases, trims and deduplicates tags, dropping a leading
// "#" and empty entries. The result is sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// stripInlineCode removes `code` spans from a line.
func stripInlineCode(line string) string {
	var b strings.Builder
	inCode := false
	for _, r := range line {
		if r == '`' {
			inCode = !inCode
			continue
		}
		if !inCode {
			b.WriteRune(r)
		}
	}
	return b.String()
}

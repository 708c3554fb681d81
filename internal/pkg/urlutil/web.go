package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildDocumentURL builds the public URL for a published document.
// Returns a URL like: {baseURL}/docs/{slugOrID}
// The path segment is escaped; any path already on baseURL is kept.
func BuildDocumentURL(baseURL, slugOrID string) (string, error) {
	if slugOrID == "" {
		return "", fmt.Errorf("document slug or id is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/docs/" + slugOrID
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// PreferSlug returns slug when set, otherwise id.
func PreferSlug(slug, id string) string {
	if slug != "" {
		return slug
	}
	return id
}

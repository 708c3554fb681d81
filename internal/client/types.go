package client

import (
	"bytes"
	"encoding/json"
)

// ID is an identifier the registry may encode as a JSON string or number.
// Any other JSON value is kept as its compact JSON text.
type ID string

// UnmarshalJSON accepts any JSON value and never fails on valid JSON.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*id = ID(buf.String())
	}
	return nil
}

func (id ID) String() string { return string(id) }

// RegisterRequest is the body of POST /register. Empty fields are omitted.
type RegisterRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RegisterResponse is the registry's answer to a registration.
type RegisterResponse struct {
	APIKey  string `json:"api_key"`
	AgentID ID     `json:"agent_id"`
	Raw     string `json:"-"`
}

// PublishResponse is the registry's answer to POST /publish.
type PublishResponse struct {
	ID   ID     `json:"id"`
	Slug string `json:"slug,omitempty"`
	Raw  string `json:"-"`
}

// Document is the summary the registry returns for a published document.
type Document struct {
	ID      ID     `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Slug    string `json:"slug,omitempty"`
	Content string `json:"content,omitempty"`
}

// DocumentList is the result of GET /documents. When the registry returns a
// shape that is neither {documents: [...]} nor a bare array, Recognized is
// false and only Raw (plus Total, if present) is meaningful.
type DocumentList struct {
	Documents  []Document
	Total      int
	HasTotal   bool
	Recognized bool
	Raw        string
}

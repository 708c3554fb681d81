package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const (
	registerEndpoint  = "/register"
	publishEndpoint   = "/publish"
	documentsEndpoint = "/documents"
)

// Register creates an agent identity and returns its API key. A 2xx answer
// without api_key is reported as *MissingFieldError.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: registerEndpoint,
		Body:     in,
		Header:   map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return nil, err
	}

	out := &RegisterResponse{Raw: string(resp.Raw)}
	if fields, ok := objectFields(resp.Raw); ok {
		out.APIKey = stringField(fields, "api_key")
		out.AgentID = idField(fields, "agent_id")
	}
	if out.APIKey == "" {
		return nil, &MissingFieldError{Endpoint: registerEndpoint, Field: "api_key", Raw: out.Raw}
	}
	return out, nil
}

// Publish uploads raw markdown content under token. The registry must
// answer with an id or a slug.
func (c *Client) Publish(ctx context.Context, token, content string) (*PublishResponse, error) {
	resp, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: publishEndpoint,
		Body:     content,
		Header: map[string]string{
			"Authorization": "Bearer " + token,
			"Content-Type":  "text/markdown",
		},
	})
	if err != nil {
		return nil, err
	}

	out := &PublishResponse{Raw: string(resp.Raw)}
	if fields, ok := objectFields(resp.Raw); ok {
		out.ID = idField(fields, "id")
		out.Slug = stringField(fields, "slug")
	}
	if out.ID == "" && out.Slug == "" {
		return nil, &MissingFieldError{Endpoint: publishEndpoint, Field: "id", Raw: out.Raw}
	}
	return out, nil
}

// ListDocuments queries the corpus. An empty query lists everything.
func (c *Client) ListDocuments(ctx context.Context, query string) (*DocumentList, error) {
	endpoint := documentsEndpoint
	if query != "" {
		endpoint += "?q=" + url.QueryEscape(query)
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	return decodeDocumentList(resp), nil
}

// decodeDocumentList accepts {total?, documents?: [...]} or a bare array.
// Each document is decoded on its own so one odd entry cannot hide the rest.
func decodeDocumentList(resp *Response) *DocumentList {
	out := &DocumentList{Raw: string(resp.Raw)}

	var items []json.RawMessage
	switch resp.Value.(type) {
	case []any:
		if err := json.Unmarshal(resp.Raw, &items); err != nil {
			return out
		}
	case map[string]any:
		fields, _ := objectFields(resp.Raw)
		var total int
		if err := json.Unmarshal(fields["total"], &total); err == nil {
			out.Total = total
			out.HasTotal = true
		}
		if err := json.Unmarshal(fields["documents"], &items); err != nil || items == nil {
			return out
		}
	default:
		return out
	}

	out.Recognized = true
	out.Documents = make([]Document, 0, len(items))
	for _, item := range items {
		out.Documents = append(out.Documents, decodeDocument(item))
	}
	if !out.HasTotal {
		out.Total = len(out.Documents)
	}
	return out
}

// decodeDocument reads whatever summary fields an entry carries. Entries
// that are not objects keep their JSON text as the title.
func decodeDocument(raw json.RawMessage) Document {
	fields, ok := objectFields(raw)
	if !ok {
		return Document{Title: string(bytes.TrimSpace(raw))}
	}
	return Document{
		ID:      idField(fields, "id"),
		Type:    stringField(fields, "type"),
		Title:   stringField(fields, "title"),
		Slug:    stringField(fields, "slug"),
		Content: stringField(fields, "content"),
	}
}

// objectFields splits a JSON object into its raw members.
func objectFields(raw []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// stringField returns fields[key] when it is a JSON string.
func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		return ""
	}
	return s
}

// idField returns fields[key] as an ID, empty when absent.
func idField(fields map[string]json.RawMessage, key string) ID {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var id ID
	if err := id.UnmarshalJSON(raw); err != nil {
		return ""
	}
	return id
}

package plexus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ContentType is the JSON:API media type sent and accepted by HTTPTransport.
const ContentType = "application/vnd.api+json"

// HTTPTransport is the stock Transport over net/http.
//
// Authentication-header derivation lives outside the engine; set static
// headers via Header or install a Prepare hook for per-request ones.
type HTTPTransport struct {
	// Client is the underlying HTTP client. http.DefaultClient when nil.
	Client *http.Client

	// Header is added to every request.
	Header http.Header

	// Prepare, when set, is called with each request before it is sent.
	Prepare func(*http.Request) error
}

// Execute implements Transport. Responses with an empty body (204s from
// deletes) yield a nil document.
func (t *HTTPTransport) Execute(ctx context.Context, verb, url string, doc *Document) (*Document, error) {
	var body io.Reader
	if doc != nil {
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, verb, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", ContentType)
	if doc != nil {
		req.Header.Set("Content-Type", ContentType)
	}
	for name, values := range t.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if t.Prepare != nil {
		if err := t.Prepare(req); err != nil {
			return nil, err
		}
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("plexus: server returned %s", resp.Status)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return ParseDocument(raw)
}

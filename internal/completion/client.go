package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request describes one completion query.
type Request struct {
	Input     string `json:"input"`
	CursorPos int    `json:"cursorPos"`
	WorkDir   string `json:"workingDirectory"`
	Shell     string `json:"shell"`
}

// Response is the remote service's answer.
type Response struct {
	Completions  []Completion `json:"completions"`
	PrefixLength int          `json:"prefixLength"`
}

// Client fetches completions for a request. Implemented over HTTP in
// production and faked in tests.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// HTTPClient talks JSON to a completion service endpoint. Any transport
// failure or non-2xx status is a fetch failure; the pipeline falls back to
// history matches.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient creates a client for the given endpoint URL.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Complete posts the request and decodes the response.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("completion service returned %s", resp.Status)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, err
	}
	return out, nil
}

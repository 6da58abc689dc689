package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client executes requests against the LunchLine backend API.
// All failures are reported as *RequestError so callers can classify them.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Headers are applied to every request (auth token, client version).
	Headers map[string]string
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Headers: make(map[string]string),
	}
}

// Do performs one request against the API.
// endpoint is relative to the base URL; body (if non-nil) is JSON-encoded;
// headers are merged over the client defaults. When out is non-nil and the
// response carries a body, it is JSON-decoded into out.
func (c *Client) Do(ctx context.Context, endpoint, method string, body any, headers map[string]string, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Kind: KindOther, Endpoint: endpoint, Method: method,
				Err: fmt.Errorf("encode body: %w", err)}
		}
		payload = bytes.NewReader(data)
	}

	url := c.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, payload)
	if err != nil {
		return &RequestError{Kind: KindOther, Endpoint: endpoint, Method: method, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Transport-level failure: the server was never reached.
		return &RequestError{Kind: KindNetwork, Endpoint: endpoint, Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &RequestError{Kind: KindHTTP, StatusCode: resp.StatusCode,
			Endpoint: endpoint, Method: method}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return &RequestError{Kind: KindOther, Endpoint: endpoint, Method: method,
				Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	return nil
}

package multimail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is the production MultiMail API endpoint.
const DefaultBaseURL = "https://api.multimail.dev"

// excerptLimit caps how much of a non-JSON response body is carried in a
// ParseError.
const excerptLimit = 200

// Client performs HTTP calls against the MultiMail REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a MultiMail API client. baseURL has any trailing slash
// stripped; an empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithHTTP is like NewClient but uses the supplied http.Client.
// Used by tests to point the client at a stub server.
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *Client {
	c := NewClient(baseURL, apiKey)
	if httpClient != nil {
		c.http = httpClient
	}
	return c
}

// BaseURL returns the resolved API endpoint base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs an authenticated JSON API call and returns the raw response
// body. body may be nil for calls without a request body. Non-2xx responses
// are classified into the package's typed errors.
func (c *Client) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, method, path, body, true)
}

// Public performs an unauthenticated JSON API call. Only used for endpoints
// documented as public, such as account activation.
func (c *Client) Public(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, method, path, body, false)
}

// Download performs an authenticated GET expecting a binary response and
// returns the raw bytes together with the Content-Type header. Non-2xx
// responses are classified the same way as JSON calls.
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", classify(resp.StatusCode, raw, resp.Header)
	}

	return raw, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if !json.Valid(raw) {
		return nil, &ParseError{Status: resp.StatusCode, Excerpt: excerpt(raw)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, raw, resp.Header)
	}

	return json.RawMessage(raw), nil
}

// classify maps a non-2xx status and its JSON body onto the error taxonomy.
func classify(status int, raw []byte, header http.Header) error {
	var payload struct {
		Error       string `json:"error"`
		WarmupStage *int   `json:"warmup_stage"`
		Sent        int    `json:"sent"`
		Limit       int    `json:"limit"`
		Hint        string `json:"hint"`
	}
	// Ignore decode failures; classification falls back to the raw body.
	_ = json.Unmarshal(raw, &payload)

	switch status {
	case http.StatusUnauthorized:
		return &AuthError{}
	case http.StatusForbidden:
		return &ScopeError{Detail: payload.Error}
	case http.StatusConflict:
		return &ConflictError{Detail: payload.Error}
	case http.StatusTooManyRequests:
		if payload.WarmupStage != nil {
			return &RateLimitError{
				Kind:  RateLimitWarmup,
				Sent:  payload.Sent,
				Limit: payload.Limit,
				Stage: *payload.WarmupStage,
				Hint:  payload.Hint,
			}
		}
		if strings.Contains(strings.ToLower(payload.Error), "quota") {
			return &RateLimitError{Kind: RateLimitQuota, Detail: payload.Error}
		}
		retryAfter := header.Get("Retry-After")
		if retryAfter == "" {
			retryAfter = "unknown"
		}
		return &RateLimitError{Kind: RateLimitGeneric, RetryAfter: retryAfter}
	default:
		detail := payload.Error
		if detail == "" {
			detail = string(raw)
		}
		return &APIError{Status: status, Detail: detail}
	}
}

func excerpt(raw []byte) string {
	s := string(raw)
	if len(s) <= excerptLimit {
		return s
	}
	// Back up to a rune boundary so the cut never leaves a partial rune.
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

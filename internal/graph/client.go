package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/plainvanilla/portal/internal/config"
)

// Client talks to the Microsoft Graph REST API with app-only credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client whose transport acquires and refreshes
// client-credentials tokens for the configured tenant.
func NewClient(ctx context.Context, cfg *config.Config) *Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.GraphTenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return &Client{
		baseURL:    cfg.GraphBaseURL,
		httpClient: cc.Client(ctx),
	}
}

// NewClientWithHTTP builds a Client over an existing http.Client. Used in
// tests against httptest servers.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// APIError is a non-2xx response from Graph.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a Graph 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any, headers map[string]string) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out, nil)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, payload, out, nil)
}

func (c *Client) patch(ctx context.Context, path string, payload, out any, headers map[string]string) error {
	return c.do(ctx, http.MethodPatch, path, payload, out, headers)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func parseAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var wrapper struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Code: wrapper.Error.Code, Message: wrapper.Error.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}

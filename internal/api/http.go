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

	"github.com/zipboard/zipboard/internal/models"
)

// HTTPClient is the real Client implementation over net/http.
type HTTPClient struct {
	base   string
	tokens TokenSource
	hc     *http.Client
}

// NewHTTPClient constructs a client for the API at base (trailing slash is
// trimmed). tokens supplies the bearer token per request; it may be nil for
// an always-anonymous client.
func NewHTTPClient(base string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		base:   strings.TrimRight(base, "/"),
		tokens: tokens,
		hc:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) SaveResult(ctx context.Context, req ResultPayload) error {
	return c.do(ctx, http.MethodPost, "/test-results", req, nil)
}

// do performs one JSON round trip. body==nil means no request body; out==nil
// discards the response body. Non-2xx responses are decoded into *Error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func decodeError(status int, raw []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status)}
	var body map[string]any
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Body = body
		if msg, ok := body["error"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

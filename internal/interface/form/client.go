package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const trendingPath = "/api/v1/tones/trending"

// RewriteResult is the relay's success body.
type RewriteResult struct {
	RewrittenText string `json:"rewrittenText"`
	OriginalText  string `json:"originalText"`
	RequestedTone string `json:"requestedTone"`
}

// ToneCount is one entry of the trending tones list.
type ToneCount struct {
	Tone  string `json:"tone"`
	Count int64  `json:"count"`
}

// APIError is a non-2xx answer from the relay. Message is the relay's
// "error" field, or "Error: <code> <status text>" when the body has none.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// APIClient performs round trips to the relay.
type APIClient struct {
	endpoint   string
	secret     string
	httpClient *http.Client
}

// NewAPIClient constructs a client for the configured endpoint.
func NewAPIClient(cfg Config) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &APIClient{
		endpoint:   cfg.Endpoint,
		secret:     cfg.Secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Rewrite posts {text, tone} to the relay.
func (c *APIClient) Rewrite(ctx context.Context, text, tone string) (RewriteResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text, "tone": tone})
	if err != nil {
		return RewriteResult{}, fmt.Errorf("encode rewrite request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return RewriteResult{}, fmt.Errorf("build rewrite request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out RewriteResult
	if err := c.do(req, &out); err != nil {
		return RewriteResult{}, err
	}
	return out, nil
}

// Trending fetches the most requested tones from the relay.
func (c *APIClient) Trending(ctx context.Context) ([]ToneCount, error) {
	endpoint, err := c.trendingURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build trending request: %w", err)
	}
	var out struct {
		Tones []ToneCount `json:"tones"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Tones, nil
}

func (c *APIClient) do(req *http.Request, out any) error {
	req.Header.Set("X-API-Secret", c.secret)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return parseAPIError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// trendingURL keeps the endpoint's scheme and host and swaps in the trending path.
func (c *APIClient) trendingURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	u.Path = trendingPath
	u.RawQuery = ""
	return u.String(), nil
}

func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Error) != "" {
		return &APIError{StatusCode: status, Message: envelope.Error}
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("Error: %d %s", status, http.StatusText(status))}
}

package twin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

const (
	DefaultURL           = "https://sandbox.twin24.ai/parse"
	maxResponseSizeBytes = 2 << 20
)

type Config struct {
	URL     string        `split_words:"true" default:"https://sandbox.twin24.ai/parse"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// Client queries a Twin NLU parse endpoint. Every Classify call issues one
// request; retries and memoization are layered on by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

type parseResponse struct {
	Intent *struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid twin url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Classify returns the intent name exactly as the service reports it.
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	if c == nil {
		return "", errors.New("nil twin client")
	}

	endpoint, err := c.endpoint(text)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build twin request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrClassifierTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", contractx.ErrClassifierTransport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: twin http status=%d body=%s", contractx.ErrClassifierStatus, resp.StatusCode, truncate(raw, 256))
	}

	var parsed parseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode twin response: %v", contractx.ErrMalformedResponse, err)
	}
	if parsed.Intent == nil || parsed.Intent.Name == "" {
		return "", fmt.Errorf("%w: twin response has no intent.name", contractx.ErrMalformedResponse)
	}
	return parsed.Intent.Name, nil
}

func (c *Client) endpoint(text string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse twin url: %w", err)
	}
	q := u.Query()
	q.Set("q", text)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func truncate(raw []byte, max int) string {
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}

package librusclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naipofo/librucmd/internal/logger"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
}

// APIError is returned for any non-2xx response. Body holds whatever the API sent back.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("librus api %s: status %d", e.Endpoint, e.StatusCode)
}

type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

func New(ctx context.Context, token *oauth2.Token, opts Options) *Client {
	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	ts := oauth2.StaticTokenSource(token)
	oauthClient := oauth2.NewClient(ctx, ts)
	oauthClient.Timeout = opts.Timeout

	return &Client{
		http:    oauthClient,
		baseURL: baseURL,
		log:     logger.Get(),
	}
}

// Call issues an authenticated GET against baseURL+endpoint and returns the raw body.
func (c *Client) Call(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+strings.TrimPrefix(endpoint, "/"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("took", time.Since(started)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

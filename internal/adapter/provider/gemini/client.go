// Package gemini implements the generative-text vendor adapter. It calls the
// Gemini REST API with deterministic decoding settings and returns
// schema-validated results. No retry logic: every call is attempted exactly
// once per request.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// Option overrides a Client default.
type Option func(*Client)

// WithBaseURL points the client at a non-default API endpoint.
// An empty value keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithModel selects the model used for generation.
// An empty value keeps the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient creates a Client against the production Gemini API.
// Returns domain.ErrConfiguration if the API key is empty.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required: %w", domain.ErrConfiguration)
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "gemini"),
	}
}

// generate sends one prompt and returns the raw response text plus the
// vendor-reported total token count (0 when usage metadata is absent).
// Decoding is pinned low (temperature 0.1, topP 0.1, topK 16) so repeated
// calls for the same word are likely, but not guaranteed, to agree.
func (c *Client) generate(ctx context.Context, prompt string) (string, int, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      0.1,
			TopP:             0.1,
			TopK:             16,
			ResponseMIMEType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("gemini: marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("gemini: request failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("gemini: read body: %w: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.ErrorContext(ctx, "gemini error response",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 512)),
		)
		return "", 0, fmt.Errorf("gemini: unexpected status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", 0, fmt.Errorf("gemini: decode response: %w: %w", domain.ErrUpstreamParse, err)
	}

	text := gr.text()
	if text == "" {
		return "", 0, fmt.Errorf("gemini: empty response: %w", domain.ErrUpstreamParse)
	}

	return text, gr.UsageMetadata.TotalTokenCount, nil
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

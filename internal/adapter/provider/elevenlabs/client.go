// Package elevenlabs implements the speech-synthesis vendor adapter.
// Voice and voice settings are fixed: pronunciation audio should sound the
// same for every word.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	// Rachel, the vendor's default voice.
	voiceID = "21m00Tcm4TlvDq8ikWAM"
	modelID = "eleven_monolingual_v1"

	stability       = 0.5
	similarityBoost = 0.75
)

// Client calls the ElevenLabs text-to-speech endpoint.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a Client against the production ElevenLabs API.
// An absent API key is a fatal configuration error, raised here rather than
// on first use.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: api key is required: %w", domain.ErrConfiguration)
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "elevenlabs"),
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
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "elevenlabs"),
	}
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to speech and returns the raw MP3 bytes.
// One attempt per call, no retry.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	reqURL := c.baseURL + "/text-to-speech/" + voiceID

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.ErrorContext(ctx, "elevenlabs error response",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("elevenlabs: unexpected status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w: %w", domain.ErrUpstream, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio response: %w", domain.ErrUpstream)
	}

	c.log.DebugContext(ctx, "audio synthesized",
		slog.String("text", text),
		slog.Int("bytes", len(audio)),
	)

	return audio, nil
}

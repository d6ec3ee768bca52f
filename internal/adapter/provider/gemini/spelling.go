package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/provider"
)

const spellingPrompt = `You are a spelling checker for English words.
CRITICAL: You must ONLY return a valid JSON object with no additional text, markdown, or formatting.
The response must be a single JSON object in this exact format:
{
  "is_misspelling": true or false,
  "suggested_word": "the most likely intended word, or an empty string",
  "alternative_suggestions": ["up", "to", "five", "other", "spellings"]
}
If the word is spelled correctly, return is_misspelling false with an empty suggested_word and an empty alternative_suggestions list.
Do not include any explanations, notes, or additional text before or after the JSON.`

const maxAlternativeSuggestions = 5

// spellingPayload is the vendor's spelling-verdict JSON shape.
type spellingPayload struct {
	IsMisspelling          bool     `json:"is_misspelling"`
	SuggestedWord          string   `json:"suggested_word"`
	AlternativeSuggestions []string `json:"alternative_suggestions"`
}

// CheckSpelling asks the vendor whether word is misspelled. Callers are
// expected to degrade silently on error: spelling correction is a
// non-essential enhancement to the primary lookup.
func (c *Client) CheckSpelling(ctx context.Context, word string) (*provider.SpellingResult, error) {
	prompt := fmt.Sprintf("%s\n\nCheck the spelling of: %s", spellingPrompt, word)

	text, _, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %s: %w", err.Error(), domain.ErrUpstreamParse)
	}

	var payload spellingPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("gemini: decode spelling verdict: %w: %w", domain.ErrUpstreamParse, err)
	}

	suggestions := payload.AlternativeSuggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	if len(suggestions) > maxAlternativeSuggestions {
		suggestions = suggestions[:maxAlternativeSuggestions]
	}

	c.log.DebugContext(ctx, "spelling checked",
		slog.String("word", word),
		slog.Bool("is_misspelling", payload.IsMisspelling),
		slog.String("suggested", payload.SuggestedWord),
	)

	return &provider.SpellingResult{
		IsMisspelling:          payload.IsMisspelling,
		SuggestedWord:          payload.SuggestedWord,
		AlternativeSuggestions: suggestions,
	}, nil
}

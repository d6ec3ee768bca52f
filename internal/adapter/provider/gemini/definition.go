package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/provider"
)

const definitionPrompt = `You are a dictionary API that provides detailed word definitions.
CRITICAL: You must ONLY return a valid JSON object with no additional text, markdown, or formatting.
The response must be a single JSON object in this exact format:
{
  "word": "the word being defined",
  "starting": "the determiner the definition starts with, e.g. A, An or The",
  "phonetic": "phonetic pronunciation",
  "definition": "a single sentence definition that starts with the word and its phonetic",
  "examples": ["example sentences", "using the word"],
  "synonyms": ["list", "of", "synonyms"],
  "usage": "description of how the word is typically used"
}
Do not include any explanations, notes, or additional text before or after the JSON.`

// definitionPayload is the vendor's definition JSON shape.
type definitionPayload struct {
	Word       string   `json:"word"`
	Starting   string   `json:"starting"`
	Phonetic   string   `json:"phonetic"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
	Synonyms   []string `json:"synonyms"`
	Usage      string   `json:"usage"`
}

// GenerateDefinition asks the vendor for a structured definition of word.
// The response is validated against the fixed schema before it is returned;
// a payload missing required fields fails with domain.ErrUpstreamParse.
func (c *Client) GenerateDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error) {
	prompt := fmt.Sprintf("%s\n\nDefine the word: %s", definitionPrompt, word)

	text, tokens, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseDefinition(text)
	if err != nil {
		c.log.ErrorContext(ctx, "definition response rejected",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	result.TokensUsed = tokens

	c.log.DebugContext(ctx, "definition generated",
		slog.String("word", word),
		slog.Int("tokens", tokens),
	)

	return result, nil
}

// parseDefinition validates raw vendor text against the definition schema.
func parseDefinition(text string) (*provider.DefinitionResult, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %s: %w", err.Error(), domain.ErrUpstreamParse)
	}

	var payload definitionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("gemini: decode definition: %w: %w", domain.ErrUpstreamParse, err)
	}

	if payload.Word == "" || payload.Definition == "" {
		return nil, fmt.Errorf("gemini: definition missing required fields: %w", domain.ErrUpstreamParse)
	}

	result := &provider.DefinitionResult{
		Word:       payload.Word,
		Starting:   payload.Starting,
		Definition: payload.Definition,
		Examples:   payload.Examples,
		Synonyms:   payload.Synonyms,
		Usage:      payload.Usage,
	}
	if payload.Phonetic != "" {
		p := payload.Phonetic
		result.Phonetic = &p
	}
	if result.Examples == nil {
		result.Examples = []string{}
	}
	if result.Synonyms == nil {
		result.Synonyms = []string{}
	}

	return result, nil
}

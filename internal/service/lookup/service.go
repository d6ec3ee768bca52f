// Package lookup implements word-definition resolution: spelling correction,
// store lookup, generation fallback, and best-effort persistence.
package lookup

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/provider"
)

type wordRepo interface {
	GetByWord(ctx context.Context, word string) (*domain.WordRecord, error)
	Create(ctx context.Context, record *domain.WordRecord) (*domain.WordRecord, error)
}

type definitionGenerator interface {
	GenerateDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error)
}

type spellChecker interface {
	CheckSpelling(ctx context.Context, word string) (*provider.SpellingResult, error)
}

type eventRecorder interface {
	Record(ctx context.Context, event *domain.ActivityEvent) *domain.ActivityEvent
}

// Service resolves word lookups against the store with a generation fallback.
type Service struct {
	log       *slog.Logger
	words     wordRepo
	generator definitionGenerator
	speller   spellChecker
	recorder  eventRecorder
}

// NewService creates a new Lookup service.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	generator definitionGenerator,
	speller spellChecker,
	recorder eventRecorder,
) *Service {
	return &Service{
		log:       logger.With("service", "lookup"),
		words:     words,
		generator: generator,
		speller:   speller,
		recorder:  recorder,
	}
}

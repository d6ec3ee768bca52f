package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/provider"
)

// Resolve returns the definition for a word, serving from the store when a
// record exists and falling back to the generation vendor otherwise. One
// activity event is recorded per invocation, including failed ones. The
// persisted record is best-effort: a write failure still serves the
// definition already in hand.
func (s *Service) Resolve(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	word := domain.NormalizeWord(in.Word)
	if word == "" {
		s.recordEvent(ctx, in, nil, domain.SourceError, nil, time.Since(start), false,
			ptrString("word parameter is required"))
		return nil, domain.NewValidationError("word", "required")
	}

	effective := word
	var correction *Correction
	if !in.IgnoreCorrection {
		if applied := s.checkSpelling(ctx, word); applied != nil {
			correction = applied
			effective = domain.NormalizeWord(applied.SuggestedWord)
		}
	}

	existing, err := s.words.GetByWord(ctx, effective)
	if err == nil {
		s.recordEvent(ctx, in, &effective, domain.SourceDatabase, nil, time.Since(start), true, nil)
		return &Result{Record: existing, Source: domain.SourceDatabase, Correction: correction}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		// The store is a cache here: a read failure downgrades to generation.
		s.log.WarnContext(ctx, "store lookup failed, falling back to generation",
			slog.String("word", effective),
			slog.String("error", err.Error()),
		)
	}

	def, err := s.generator.GenerateDefinition(ctx, effective)
	if err != nil {
		s.log.ErrorContext(ctx, "definition generation failed",
			slog.String("word", effective),
			slog.String("error", err.Error()),
		)
		msg := err.Error()
		s.recordEvent(ctx, in, &effective, domain.SourceError, nil, time.Since(start), false, &msg)
		return nil, fmt.Errorf("generate definition: %w", err)
	}

	record := mapToRecord(effective, def)
	created, createErr := s.words.Create(ctx, record)
	switch {
	case createErr == nil:
		record = created
	case errors.Is(createErr, domain.ErrAlreadyExists):
		// Concurrent first lookup of the same word won the insert.
		if winner, readErr := s.words.GetByWord(ctx, effective); readErr == nil {
			record = winner
		}
	default:
		s.log.WarnContext(ctx, "word persist failed, serving unsaved definition",
			slog.String("word", effective),
			slog.String("error", createErr.Error()),
		)
	}

	tokens := def.TokensUsed
	s.recordEvent(ctx, in, &effective, domain.SourceGemini, &tokens, time.Since(start), true, nil)

	return &Result{
		Record:     record,
		Source:     domain.SourceGemini,
		TokensUsed: def.TokensUsed,
		Correction: correction,
	}, nil
}

// checkSpelling asks the vendor for a misspelling verdict. Any vendor error
// degrades silently to "no correction"; a verdict with an empty suggestion
// is treated the same way.
func (s *Service) checkSpelling(ctx context.Context, word string) *Correction {
	verdict, err := s.speller.CheckSpelling(ctx, word)
	if err != nil {
		s.log.WarnContext(ctx, "spelling check failed, proceeding without correction",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil
	}

	sc := domain.SpellingCorrection{
		IsMisspelling:          verdict.IsMisspelling,
		SuggestedWord:          verdict.SuggestedWord,
		AlternativeSuggestions: verdict.AlternativeSuggestions,
	}
	if !sc.Applies() {
		return nil
	}

	return &Correction{
		OriginalWord:           word,
		SuggestedWord:          sc.SuggestedWord,
		AlternativeSuggestions: sc.AlternativeSuggestions,
	}
}

func (s *Service) recordEvent(
	ctx context.Context,
	in Input,
	word *string,
	source domain.ResponseSource,
	tokens *int,
	elapsed time.Duration,
	success bool,
	errMsg *string,
) {
	s.recorder.Record(ctx, &domain.ActivityEvent{
		ActivityType:   domain.ActivityWordSearch,
		WordSearched:   word,
		ResponseSource: source,
		TokensUsed:     tokens,
		ResponseTimeMs: int(elapsed.Milliseconds()),
		Success:        success,
		ErrorMessage:   errMsg,
		UserID:         in.UserID,
		UserEmail:      in.UserEmail,
		UserAgent:      in.UserAgent,
		IPAddress:      in.IPAddress,
		SessionID:      in.SessionID,
	})
}

func mapToRecord(word string, def *provider.DefinitionResult) *domain.WordRecord {
	return &domain.WordRecord{
		Word:       word,
		Starting:   def.Starting,
		Phonetic:   def.Phonetic,
		Definition: def.Definition,
		Examples:   def.Examples,
		Synonyms:   def.Synonyms,
		Usage:      def.Usage,
	}
}

func ptrString(s string) *string { return &s }

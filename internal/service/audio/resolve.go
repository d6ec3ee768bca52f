package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// ContentType of all synthesized and stored pronunciation audio.
const ContentType = "audio/mpeg"

// Input carries one audio request plus the optional caller identity used
// for activity logging.
type Input struct {
	Text      string
	UserID    *string
	UserEmail *string
	UserAgent *string
	IPAddress string
	SessionID *string
}

// Result is resolved audio tagged with where the bytes came from: the
// in-process cache, the store, or a fresh synthesis.
type Result struct {
	Audio       []byte
	ContentType string
	Source      domain.ResponseSource
}

// Resolve returns pronunciation audio for the text. Resolution order is
// cache, stored audio file, synthesis vendor. Persisting freshly synthesized
// audio is best-effort and never fails the response.
func (s *Service) Resolve(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	text := domain.NormalizeWord(in.Text)
	if text == "" {
		s.recordEvent(ctx, in, nil, domain.SourceError, time.Since(start), false,
			ptrString("text parameter is required"))
		return nil, domain.NewValidationError("text", "required")
	}

	if data, ok := s.cache.Get(text); ok {
		s.recordEvent(ctx, in, &text, domain.SourceCache, time.Since(start), true, nil)
		return &Result{Audio: data, ContentType: ContentType, Source: domain.SourceCache}, nil
	}

	record := s.lookupRecord(ctx, text)
	if record.HasAudio() {
		file, err := s.files.Get(ctx, *record.AudioFileID)
		if err == nil {
			s.cache.Set(text, file.Data)
			s.recordEvent(ctx, in, &text, domain.SourceDatabase, time.Since(start), true, nil)
			return &Result{Audio: file.Data, ContentType: ContentType, Source: domain.SourceDatabase}, nil
		}
		// A dangling or unreadable reference falls through to synthesis.
		s.log.WarnContext(ctx, "stored audio fetch failed, synthesizing",
			slog.String("word", text),
			slog.String("error", err.Error()),
		)
	}

	data, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		s.log.ErrorContext(ctx, "speech synthesis failed",
			slog.String("word", text),
			slog.String("error", err.Error()),
		)
		msg := err.Error()
		s.recordEvent(ctx, in, &text, domain.SourceError, time.Since(start), false, &msg)
		return nil, fmt.Errorf("synthesize audio: %w", err)
	}

	s.persistAudio(ctx, record, text, data)
	s.cache.Set(text, data)
	s.recordEvent(ctx, in, &text, domain.SourceGemini, time.Since(start), true, nil)

	return &Result{Audio: data, ContentType: ContentType, Source: domain.SourceGemini}, nil
}

// lookupRecord returns the stored word record, or an empty record when the
// word is unknown or the read fails. Audio resolution does not require a
// word record to exist.
func (s *Service) lookupRecord(ctx context.Context, text string) *domain.WordRecord {
	record, err := s.words.GetByWord(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "word lookup failed, synthesizing without store",
				slog.String("word", text),
				slog.String("error", err.Error()),
			)
		}
		return &domain.WordRecord{}
	}
	return record
}

// persistAudio stores the synthesized bytes and patches the word record's
// audio reference in one transaction. Best-effort: failures are logged and
// the in-flight response still serves the bytes in hand. Nothing is stored
// when no word record exists to hold the reference.
func (s *Service) persistAudio(ctx context.Context, record *domain.WordRecord, text string, data []byte) {
	if record.ID == uuid.Nil {
		return
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		file, putErr := s.files.Put(txCtx, &domain.AudioFile{
			Word:        text,
			ContentType: ContentType,
			Data:        data,
		})
		if putErr != nil {
			return putErr
		}
		return s.words.SetAudioFile(txCtx, record.ID, file.ID)
	})
	if err != nil {
		s.log.WarnContext(ctx, "audio persist failed, serving unsaved audio",
			slog.String("word", text),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordEvent(
	ctx context.Context,
	in Input,
	word *string,
	source domain.ResponseSource,
	elapsed time.Duration,
	success bool,
	errMsg *string,
) {
	s.recorder.Record(ctx, &domain.ActivityEvent{
		ActivityType:   domain.ActivityAudioGeneration,
		WordSearched:   word,
		ResponseSource: source,
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

func ptrString(s string) *string { return &s }

package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordRecord is one cached dictionary entry. Word is always stored lower-cased
// and is unique; the record is created on the first successful generation for
// an unseen word and never deleted by the application.
type WordRecord struct {
	ID         uuid.UUID
	Word       string
	Starting   string
	Phonetic   *string
	Definition string
	Examples   []string
	Synonyms   []string
	Usage      string
	// AudioFileID points into audio storage. Set on the first successful
	// synthesis for this word, nil before that.
	AudioFileID *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasAudio reports whether a stored audio file reference exists.
func (w *WordRecord) HasAudio() bool {
	return w.AudioFileID != nil
}

// AudioFile is a stored pronunciation audio blob. It stands in for generic
// object storage: callers address it only by ID.
type AudioFile struct {
	ID          uuid.UUID
	Word        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// SpellingCorrection is the ephemeral verdict of the spelling-correction
// vendor call. It is never persisted.
type SpellingCorrection struct {
	IsMisspelling          bool
	SuggestedWord          string
	AlternativeSuggestions []string
}

// Applies reports whether the verdict should replace the searched word.
// A misspelling verdict with an empty suggestion is treated as no correction.
func (c *SpellingCorrection) Applies() bool {
	return c != nil && c.IsMisspelling && c.SuggestedWord != ""
}

// Package audio implements pronunciation audio resolution: in-process cache,
// stored audio lookup, and speech-synthesis fallback.
package audio

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexigen-backend/internal/cache"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

type wordRepo interface {
	GetByWord(ctx context.Context, word string) (*domain.WordRecord, error)
	SetAudioFile(ctx context.Context, wordID, audioFileID uuid.UUID) error
}

type audioFileRepo interface {
	Put(ctx context.Context, file *domain.AudioFile) (*domain.AudioFile, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.AudioFile, error)
}

type synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type eventRecorder interface {
	Record(ctx context.Context, event *domain.ActivityEvent) *domain.ActivityEvent
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service resolves pronunciation audio for a word.
type Service struct {
	log      *slog.Logger
	words    wordRepo
	files    audioFileRepo
	synth    synthesizer
	recorder eventRecorder
	tx       txManager
	cache    *cache.TTL[[]byte]
}

// NewService creates a new Audio service. The cache sits in front of both
// the store and the synthesis vendor.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	files audioFileRepo,
	synth synthesizer,
	recorder eventRecorder,
	tx txManager,
	responseCache *cache.TTL[[]byte],
) *Service {
	return &Service{
		log:      logger.With("service", "audio"),
		words:    words,
		files:    files,
		synth:    synth,
		recorder: recorder,
		tx:       tx,
		cache:    responseCache,
	}
}

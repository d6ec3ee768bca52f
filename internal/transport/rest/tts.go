package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/service/audio"
	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

// audioService defines the minimal interface needed by TTSHandler.
type audioService interface {
	Resolve(ctx context.Context, in audio.Input) (*audio.Result, error)
}

// TTSHandler serves GET /api/tts.
type TTSHandler struct {
	svc audioService
	log *slog.Logger
}

// NewTTSHandler creates a TTSHandler.
func NewTTSHandler(svc audioService, logger *slog.Logger) *TTSHandler {
	return &TTSHandler{svc: svc, log: logger.With("handler", "tts")}
}

// Synthesize handles GET /api/tts?text=&user_id=&user_email=.
// Responses carry a day-long cache header: pronunciation audio for a word
// does not change.
func (h *TTSHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")

	in := audio.Input{Text: text}
	in.UserID, in.UserEmail = callerIdentity(r)
	in.UserAgent = optionalHeader(r, "User-Agent")
	in.IPAddress = ctxutil.ClientIPFromCtx(r.Context())
	in.SessionID = optionalHeader(r, "X-Session-Id")

	result, err := h.svc.Resolve(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Audio-Source", result.Source.String())
	w.WriteHeader(http.StatusOK)
	w.Write(result.Audio) //nolint:errcheck
}

func (h *TTSHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "Text parameter is required")
	default:
		h.log.ErrorContext(r.Context(), "synthesis failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to generate audio")
	}
}

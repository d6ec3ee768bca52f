package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/service/lookup"
	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

// lookupService defines the minimal interface needed by DictionaryHandler.
type lookupService interface {
	Resolve(ctx context.Context, in lookup.Input) (*lookup.Result, error)
}

// DictionaryHandler serves GET /api/dictionary.
type DictionaryHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewDictionaryHandler creates a DictionaryHandler.
func NewDictionaryHandler(svc lookupService, logger *slog.Logger) *DictionaryHandler {
	return &DictionaryHandler{svc: svc, log: logger.With("handler", "dictionary")}
}

type definitionResponse struct {
	Word       string   `json:"word"`
	Starting   string   `json:"starting"`
	Phonetic   *string  `json:"phonetic,omitempty"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
	Synonyms   []string `json:"synonyms"`
	Usage      string   `json:"usage"`
	Source     string   `json:"source"`

	// Present only when a spelling correction was applied.
	OriginalWord           string   `json:"originalWord,omitempty"`
	SuggestedWord          string   `json:"suggestedWord,omitempty"`
	AlternativeSuggestions []string `json:"alternativeSuggestions,omitempty"`
}

// Lookup handles GET /api/dictionary?word=&ignoreCorrection=&user_id=&user_email=.
func (h *DictionaryHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("word") == "" {
		// The resolver still records the failed event for the dashboard.
		h.resolve(r, lookup.Input{})
		writeError(w, http.StatusBadRequest, "Word parameter is required")
		return
	}

	ignoreCorrection, _ := strconv.ParseBool(q.Get("ignoreCorrection"))

	result, err := h.resolve(r, lookup.Input{
		Word:             q.Get("word"),
		IgnoreCorrection: ignoreCorrection,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDefinitionResponse(result))
}

// resolve fills the caller fields shared by every lookup before delegating.
func (h *DictionaryHandler) resolve(r *http.Request, in lookup.Input) (*lookup.Result, error) {
	in.UserID, in.UserEmail = callerIdentity(r)
	in.UserAgent = optionalHeader(r, "User-Agent")
	in.IPAddress = ctxutil.ClientIPFromCtx(r.Context())
	in.SessionID = optionalHeader(r, "X-Session-Id")
	return h.svc.Resolve(r.Context(), in)
}

func (h *DictionaryHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "Word parameter is required")
	default:
		// Vendor and parse failures stay opaque to the caller.
		h.log.ErrorContext(r.Context(), "lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to get definition")
	}
}

func toDefinitionResponse(result *lookup.Result) definitionResponse {
	record := result.Record
	resp := definitionResponse{
		Word:       record.Word,
		Starting:   record.Starting,
		Phonetic:   record.Phonetic,
		Definition: record.Definition,
		Examples:   record.Examples,
		Synonyms:   record.Synonyms,
		Usage:      record.Usage,
		Source:     result.Source.String(),
	}
	if resp.Examples == nil {
		resp.Examples = []string{}
	}
	if resp.Synonyms == nil {
		resp.Synonyms = []string{}
	}
	if c := result.Correction; c != nil {
		resp.OriginalWord = c.OriginalWord
		resp.SuggestedWord = c.SuggestedWord
		resp.AlternativeSuggestions = c.AlternativeSuggestions
	}
	return resp
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/internal/service/lookup"
	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

type lookupServiceMock struct {
	resolveFunc func(ctx context.Context, in lookup.Input) (*lookup.Result, error)
	calls       []lookup.Input
}

func (m *lookupServiceMock) Resolve(ctx context.Context, in lookup.Input) (*lookup.Result, error) {
	m.calls = append(m.calls, in)
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, in)
	}
	return nil, errors.New("unexpected call")
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func testRecord(word string) *domain.WordRecord {
	phonetic := "/" + word + "/"
	return &domain.WordRecord{
		Word:       word,
		Starting:   word,
		Phonetic:   &phonetic,
		Definition: "a test definition",
		Examples:   []string{"an example sentence"},
		Synonyms:   []string{"sample"},
		Usage:      "informal",
	}
}

func TestDictionary_Lookup_OK(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, in lookup.Input) (*lookup.Result, error) {
			return &lookup.Result{
				Record: testRecord(in.Word),
				Source: domain.SourceDatabase,
			}, nil
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=ephemeral", nil)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp definitionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Word != "ephemeral" {
		t.Errorf("expected word 'ephemeral', got %q", resp.Word)
	}

	if resp.Source != "database" {
		t.Errorf("expected source 'database', got %q", resp.Source)
	}

	if resp.SuggestedWord != "" {
		t.Errorf("expected no correction fields, got suggestedWord %q", resp.SuggestedWord)
	}
}

func TestDictionary_Lookup_IncludesCorrection(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, in lookup.Input) (*lookup.Result, error) {
			return &lookup.Result{
				Record: testRecord("receive"),
				Source: domain.SourceGemini,
				Correction: &lookup.Correction{
					OriginalWord:           "recieve",
					SuggestedWord:          "receive",
					AlternativeSuggestions: []string{"received"},
				},
			}, nil
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=recieve", nil)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp definitionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.OriginalWord != "recieve" {
		t.Errorf("expected originalWord 'recieve', got %q", resp.OriginalWord)
	}

	if resp.SuggestedWord != "receive" {
		t.Errorf("expected suggestedWord 'receive', got %q", resp.SuggestedWord)
	}

	if len(resp.AlternativeSuggestions) != 1 {
		t.Errorf("expected 1 alternative suggestion, got %d", len(resp.AlternativeSuggestions))
	}
}

func TestDictionary_Lookup_MissingWord(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, _ lookup.Input) (*lookup.Result, error) {
			return nil, domain.NewValidationError("word", "required")
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary", nil)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["error"] != "Word parameter is required" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}

	// The empty lookup still reaches the resolver so the failed
	// event lands in the activity log.
	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 resolver call, got %d", len(svc.calls))
	}
}

func TestDictionary_Lookup_UpstreamFailure(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, _ lookup.Input) (*lookup.Result, error) {
			return nil, domain.ErrUpstream
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=ephemeral", nil)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["error"] != "Failed to get definition" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestDictionary_Lookup_ForwardsCallerContext(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, in lookup.Input) (*lookup.Result, error) {
			return &lookup.Result{Record: testRecord(in.Word), Source: domain.SourceDatabase}, nil
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=ephemeral&user_id=u-1&user_email=u%40example.com&ignoreCorrection=true", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Session-Id", "sess-1")
	req = req.WithContext(ctxutil.WithClientIP(req.Context(), "203.0.113.9"))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 resolver call, got %d", len(svc.calls))
	}

	in := svc.calls[0]

	if !in.IgnoreCorrection {
		t.Error("expected ignoreCorrection to be forwarded")
	}

	if in.UserID == nil || *in.UserID != "u-1" {
		t.Errorf("expected user id 'u-1', got %v", in.UserID)
	}

	if in.UserEmail == nil || *in.UserEmail != "u@example.com" {
		t.Errorf("expected user email 'u@example.com', got %v", in.UserEmail)
	}

	if in.UserAgent == nil || *in.UserAgent != "test-agent" {
		t.Errorf("expected user agent 'test-agent', got %v", in.UserAgent)
	}

	if in.IPAddress != "203.0.113.9" {
		t.Errorf("expected ip '203.0.113.9', got %q", in.IPAddress)
	}

	if in.SessionID == nil || *in.SessionID != "sess-1" {
		t.Errorf("expected session 'sess-1', got %v", in.SessionID)
	}
}

func TestDictionary_Lookup_TokenIdentityFallback(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, in lookup.Input) (*lookup.Result, error) {
			return &lookup.Result{Record: testRecord(in.Word), Source: domain.SourceDatabase}, nil
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=ephemeral", nil)
	req = req.WithContext(ctxutil.WithIdentity(req.Context(), ctxutil.Identity{
		UserID: "token-user",
		Email:  "token@example.com",
	}))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 resolver call, got %d", len(svc.calls))
	}

	in := svc.calls[0]

	if in.UserID == nil || *in.UserID != "token-user" {
		t.Errorf("expected token user id, got %v", in.UserID)
	}

	if in.UserEmail == nil || *in.UserEmail != "token@example.com" {
		t.Errorf("expected token email, got %v", in.UserEmail)
	}
}

func TestDictionary_Lookup_EmptySlicesNotNull(t *testing.T) {
	t.Parallel()

	svc := &lookupServiceMock{
		resolveFunc: func(_ context.Context, in lookup.Input) (*lookup.Result, error) {
			record := testRecord(in.Word)
			record.Examples = nil
			record.Synonyms = nil
			return &lookup.Result{Record: record, Source: domain.SourceDatabase}, nil
		},
	}
	h := NewDictionaryHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary?word=ephemeral", nil)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if _, ok := resp["examples"].([]any); !ok {
		t.Errorf("expected examples to be a JSON array, got %T", resp["examples"])
	}

	if _, ok := resp["synonyms"].([]any); !ok {
		t.Errorf("expected synonyms to be a JSON array, got %T", resp["synonyms"])
	}
}

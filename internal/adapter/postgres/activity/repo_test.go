package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

func newRepo(t *testing.T) *activity.Repo {
	t.Helper()
	return activity.New(testhelper.SetupTestDB(t))
}

func buildEvent(userID string, word string, source domain.ResponseSource, tokens int) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		ActivityType:   domain.ActivityWordSearch,
		WordSearched:   &word,
		ResponseSource: source,
		TokensUsed:     &tokens,
		ResponseTimeMs: 120,
		Success:        source != domain.SourceError,
		UserID:         &userID,
		IPAddress:      "localhost-dev",
		Metadata:       map[string]any{"gemini_model": "gemini-2.0-flash"},
	}
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	got, err := repo.Create(ctx, buildEvent("user-create", "hello", domain.SourceGemini, 42))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID == uuid.Nil {
		t.Error("ID should be assigned")
	}
	if got.ActivityType != domain.ActivityWordSearch {
		t.Errorf("ActivityType = %q, want word_search", got.ActivityType)
	}
	if got.TokensUsed == nil || *got.TokensUsed != 42 {
		t.Errorf("TokensUsed = %v, want 42", got.TokensUsed)
	}
	if got.Metadata["gemini_model"] != "gemini-2.0-flash" {
		t.Errorf("Metadata = %v, want gemini_model preserved", got.Metadata)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be assigned by the database")
	}
}

func TestRepo_Create_NilMetadataStoredAsEmptyObject(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	event := buildEvent("user-nilmeta", "hello", domain.SourceDatabase, 0)
	event.Metadata = nil

	got, err := repo.Create(context.Background(), event)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if got.Metadata == nil || len(got.Metadata) != 0 {
		t.Errorf("Metadata = %v, want empty map", got.Metadata)
	}
}

func TestRepo_ListRecent_FiltersByUser(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	userA := "list-user-a"
	userB := "list-user-b"
	for _, u := range []string{userA, userA, userB} {
		if _, err := repo.Create(ctx, buildEvent(u, "word", domain.SourceDatabase, 0)); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
	}

	events, err := repo.ListRecent(ctx, &userA, 100)
	if err != nil {
		t.Fatalf("ListRecent: unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	for _, e := range events {
		if e.UserID == nil || *e.UserID != userA {
			t.Errorf("event UserID = %v, want %q", e.UserID, userA)
		}
	}
}

func TestRepo_ListRecent_OrderedNewestFirst(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	user := "list-order"
	for _, w := range []string{"first", "second"} {
		if _, err := repo.Create(ctx, buildEvent(user, w, domain.SourceDatabase, 0)); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
	}

	events, err := repo.ListRecent(ctx, &user, 1)
	if err != nil {
		t.Fatalf("ListRecent: unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1 (limit)", len(events))
	}
}

func TestRepo_AggregateSearches(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	// Isolate this test's events in their own window.
	since := time.Now().Add(-time.Second)
	user := "agg-user-" + uuid.NewString()

	fixtures := []*domain.ActivityEvent{
		buildEvent(user, "alpha", domain.SourceGemini, 100),
		buildEvent(user, "alpha", domain.SourceDatabase, 0),
		buildEvent(user, "beta", domain.SourceError, 0),
	}
	for _, f := range fixtures {
		if _, err := repo.Create(ctx, f); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
	}

	agg, err := repo.AggregateSearches(ctx, since)
	if err != nil {
		t.Fatalf("AggregateSearches: unexpected error: %v", err)
	}

	if agg.TotalSearches < 3 {
		t.Errorf("TotalSearches = %d, want >= 3", agg.TotalSearches)
	}
	if agg.UniqueWords < 2 {
		t.Errorf("UniqueWords = %d, want >= 2", agg.UniqueWords)
	}
	if agg.TotalTokensUsed < 100 {
		t.Errorf("TotalTokensUsed = %d, want >= 100", agg.TotalTokensUsed)
	}
	if agg.GeminiCount < 1 || agg.DatabaseCount < 1 || agg.ErrorCount < 1 {
		t.Errorf("breakdown = %d/%d/%d, want each >= 1",
			agg.DatabaseCount, agg.GeminiCount, agg.ErrorCount)
	}
}

func TestRepo_DeleteOlderThan(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := activity.New(pool)
	ctx := context.Background()

	user := "retention-user-" + uuid.NewString()

	old, err := repo.Create(ctx, buildEvent(user, "stale", domain.SourceGemini, 10))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	fresh, err := repo.Create(ctx, buildEvent(user, "fresh", domain.SourceDatabase, 0))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	// Backdate one event past the retention window.
	_, err = pool.Exec(ctx,
		`UPDATE activities SET created_at = now() - interval '100 days' WHERE id = $1`, old.ID)
	if err != nil {
		t.Fatalf("backdate event: %v", err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("DeleteOlderThan: unexpected error: %v", err)
	}
	if deleted < 1 {
		t.Errorf("deleted = %d, want >= 1", deleted)
	}

	events, err := repo.ListRecent(ctx, &user, 10)
	if err != nil {
		t.Fatalf("ListRecent: unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(events))
	}
	if events[0].ID != fresh.ID {
		t.Errorf("surviving event = %s, want %s", events[0].ID, fresh.ID)
	}
}

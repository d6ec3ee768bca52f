package word_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/audiofile"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

func newRepo(t *testing.T) (*word.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return word.New(pool), pool
}

func buildWord(text string) *domain.WordRecord {
	phonetic := "/test/"
	return &domain.WordRecord{
		Word:       text,
		Starting:   "The",
		Phonetic:   &phonetic,
		Definition: text + " is a word used in tests.",
		Examples:   []string{"First example.", "Second example."},
		Synonyms:   []string{"sample", "specimen"},
		Usage:      "Used only in tests.",
	}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	got, err := repo.Create(ctx, buildWord("create-happy"))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID == uuid.Nil {
		t.Error("ID should be assigned")
	}
	if got.Word != "create-happy" {
		t.Errorf("Word = %q, want %q", got.Word, "create-happy")
	}
	if len(got.Examples) != 2 || len(got.Synonyms) != 2 {
		t.Errorf("Examples/Synonyms = %d/%d, want 2/2", len(got.Examples), len(got.Synonyms))
	}
	if got.AudioFileID != nil {
		t.Error("AudioFileID should start nil")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be assigned by the database")
	}
}

func TestRepo_Create_DuplicateWord(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, buildWord("create-duplicate")); err != nil {
		t.Fatalf("first Create: unexpected error: %v", err)
	}

	_, err := repo.Create(ctx, buildWord("create-duplicate"))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second Create error = %v, want ErrAlreadyExists", err)
	}
}

// ---------------------------------------------------------------------------
// GetByWord tests
// ---------------------------------------------------------------------------

func TestRepo_GetByWord_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedWord(t, pool, "get-happy")

	got, err := repo.GetByWord(ctx, "get-happy")
	if err != nil {
		t.Fatalf("GetByWord: unexpected error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("ID = %s, want %s", got.ID, seeded.ID)
	}
	if got.Definition != seeded.Definition {
		t.Errorf("Definition = %q, want %q", got.Definition, seeded.Definition)
	}
}

func TestRepo_GetByWord_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByWord(context.Background(), "never-stored")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// SetAudioFile tests
// ---------------------------------------------------------------------------

func TestRepo_SetAudioFile_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedWord(t, pool, "audio-patch")
	audioRepo := audiofile.New(pool)

	file, err := audioRepo.Put(ctx, &domain.AudioFile{
		Word:        seeded.Word,
		ContentType: "audio/mpeg",
		Data:        []byte{0xFF, 0xFB},
	})
	if err != nil {
		t.Fatalf("Put audio: unexpected error: %v", err)
	}

	if err := repo.SetAudioFile(ctx, seeded.ID, file.ID); err != nil {
		t.Fatalf("SetAudioFile: unexpected error: %v", err)
	}

	got, err := repo.GetByWord(ctx, seeded.Word)
	if err != nil {
		t.Fatalf("GetByWord: unexpected error: %v", err)
	}
	if got.AudioFileID == nil || *got.AudioFileID != file.ID {
		t.Errorf("AudioFileID = %v, want %s", got.AudioFileID, file.ID)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("UpdatedAt should advance on patch")
	}
}

func TestRepo_SetAudioFile_WordNotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	audioRepo := audiofile.New(pool)
	file, err := audioRepo.Put(ctx, &domain.AudioFile{
		Word:        "orphan",
		ContentType: "audio/mpeg",
		Data:        []byte{0xFF},
	})
	if err != nil {
		t.Fatalf("Put audio: unexpected error: %v", err)
	}

	err = repo.SetAudioFile(ctx, uuid.New(), file.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// SeedWord inserts a minimal word record directly, bypassing the repository,
// and returns it. Fails the test on error.
func SeedWord(t *testing.T, pool *pgxpool.Pool, wordText string) *domain.WordRecord {
	t.Helper()

	record := &domain.WordRecord{
		ID:         uuid.New(),
		Word:       domain.NormalizeWord(wordText),
		Starting:   "The",
		Definition: wordText + " is a test word.",
		Examples:   []string{"An example with " + wordText + "."},
		Synonyms:   []string{},
		Usage:      "Used in tests.",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := pool.QueryRow(ctx,
		`INSERT INTO words (id, word, starting, definition, examples, synonyms, usage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		record.ID, record.Word, record.Starting, record.Definition,
		record.Examples, record.Synonyms, record.Usage,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: seed word %q: %v", wordText, err)
	}

	return record
}

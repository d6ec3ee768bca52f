// Package word implements the WordRecord repository using PostgreSQL.
// Words are keyed by their normalized (lower-cased) form; a unique index
// backs the cache-by-word semantics.
package word

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// Repo provides word record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const wordColumns = "id, word, starting, phonetic, definition, examples, synonyms, usage, audio_file_id, created_at, updated_at"

// GetByWord returns the record for a normalized word key.
// Returns domain.ErrNotFound when the word has not been cached yet.
func (r *Repo) GetByWord(ctx context.Context, word string) (*domain.WordRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select(wordColumns).
		From("words").
		Where(sq.Eq{"word": word}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get word query: %w", err)
	}

	row := querier.QueryRow(ctx, query, args...)
	record, err := scanWord(row)
	if err != nil {
		return nil, postgres.MapError(err, "word", word)
	}

	return record, nil
}

// Create inserts a new word record and returns the persisted row.
// A concurrent insert of the same word maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, record *domain.WordRecord) (*domain.WordRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query, args, err := builder.
		Insert("words").
		Columns("id", "word", "starting", "phonetic", "definition", "examples", "synonyms", "usage").
		Values(record.ID, record.Word, record.Starting, record.Phonetic,
			record.Definition, record.Examples, record.Synonyms, record.Usage).
		Suffix("RETURNING " + wordColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create word query: %w", err)
	}

	row := querier.QueryRow(ctx, query, args...)
	created, err := scanWord(row)
	if err != nil {
		return nil, postgres.MapError(err, "word", record.Word)
	}

	return created, nil
}

// SetAudioFile patches the record's audio file reference.
// Returns domain.ErrNotFound if the word record does not exist.
func (r *Repo) SetAudioFile(ctx context.Context, wordID, audioFileID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Update("words").
		Set("audio_file_id", audioFileID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": wordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set audio file query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "word", wordID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", wordID, domain.ErrNotFound)
	}

	return nil
}

func scanWord(row pgx.Row) (*domain.WordRecord, error) {
	var w domain.WordRecord
	err := row.Scan(
		&w.ID,
		&w.Word,
		&w.Starting,
		&w.Phonetic,
		&w.Definition,
		&w.Examples,
		&w.Synonyms,
		&w.Usage,
		&w.AudioFileID,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if w.Examples == nil {
		w.Examples = []string{}
	}
	if w.Synonyms == nil {
		w.Synonyms = []string{}
	}
	return &w, nil
}

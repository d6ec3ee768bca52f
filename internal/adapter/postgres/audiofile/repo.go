// Package audiofile implements pronunciation audio storage using PostgreSQL.
// It stands in for generic object storage: blobs are addressed by opaque ID
// and never updated or deleted by the application.
package audiofile

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// Repo provides audio blob persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audio file repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Put stores audio bytes and returns the stored file with its assigned ID.
func (r *Repo) Put(ctx context.Context, file *domain.AudioFile) (*domain.AudioFile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}

	query, args, err := builder.
		Insert("audio_files").
		Columns("id", "word", "content_type", "data").
		Values(file.ID, file.Word, file.ContentType, file.Data).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build put audio query: %w", err)
	}

	if err := querier.QueryRow(ctx, query, args...).Scan(&file.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "audio_file", file.ID.String())
	}

	return file, nil
}

// Get returns the stored audio blob by ID.
// Returns domain.ErrNotFound if no blob exists under that ID.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*domain.AudioFile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select("id", "word", "content_type", "data", "created_at").
		From("audio_files").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get audio query: %w", err)
	}

	var file domain.AudioFile
	err = querier.QueryRow(ctx, query, args...).Scan(
		&file.ID,
		&file.Word,
		&file.ContentType,
		&file.Data,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "audio_file", id.String())
	}

	return &file, nil
}

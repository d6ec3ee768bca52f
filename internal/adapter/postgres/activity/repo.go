// Package activity implements the ActivityEvent repository using PostgreSQL.
// The activities table is append-only: events are inserted once and read back
// only for dashboard statistics.
package activity

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// Repo provides activity event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const activityColumns = `id, activity_type, word_searched, response_source, tokens_used,
response_time_ms, success, error_message, user_id, user_email, user_agent,
ip_address, session_id, metadata, created_at`

// Create inserts one event and returns the persisted row.
func (r *Repo) Create(ctx context.Context, event *domain.ActivityEvent) (*domain.ActivityEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query, args, err := builder.
		Insert("activities").
		Columns("id", "activity_type", "word_searched", "response_source", "tokens_used",
			"response_time_ms", "success", "error_message", "user_id", "user_email",
			"user_agent", "ip_address", "session_id", "metadata").
		Values(event.ID, event.ActivityType, event.WordSearched, event.ResponseSource,
			event.TokensUsed, event.ResponseTimeMs, event.Success, event.ErrorMessage,
			event.UserID, event.UserEmail, event.UserAgent, event.IPAddress,
			event.SessionID, metadata).
		Suffix("RETURNING " + activityColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create activity query: %w", err)
	}

	row := querier.QueryRow(ctx, query, args...)
	created, err := scanActivity(row)
	if err != nil {
		return nil, postgres.MapError(err, "activity", event.ID.String())
	}

	return created, nil
}

// ListRecent returns events ordered newest first. A nil userID lists across
// all users (admin view); otherwise only that user's events.
func (r *Repo) ListRecent(ctx context.Context, userID *string, limit int) ([]domain.ActivityEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := builder.
		Select(activityColumns).
		From("activities").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if userID != nil {
		q = q.Where(sq.Eq{"user_id": *userID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activities query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		event, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return events, nil
}

const aggregateSearchesSQL = `
SELECT
    count(*),
    count(DISTINCT word_searched) FILTER (WHERE word_searched IS NOT NULL),
    COALESCE(sum(tokens_used), 0),
    COALESCE(round(avg(response_time_ms)), 0),
    count(*) FILTER (WHERE success),
    count(*) FILTER (WHERE response_source = 'database'),
    count(*) FILTER (WHERE response_source = 'gemini'),
    count(*) FILTER (WHERE response_source NOT IN ('database', 'gemini'))
FROM activities
WHERE activity_type = 'word_search' AND created_at >= $1`

// AggregateSearches computes dashboard counters over word_search events
// created at or after since.
func (r *Repo) AggregateSearches(ctx context.Context, since time.Time) (*domain.SearchAggregate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var agg domain.SearchAggregate
	err := querier.QueryRow(ctx, aggregateSearchesSQL, since).Scan(
		&agg.TotalSearches,
		&agg.UniqueWords,
		&agg.TotalTokensUsed,
		&agg.AverageResponseTime,
		&agg.SuccessfulSearches,
		&agg.DatabaseCount,
		&agg.GeminiCount,
		&agg.ErrorCount,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate searches: %w", err)
	}

	return &agg, nil
}

// DeleteOlderThan removes events created before cutoff. Used by the
// retention cleanup command, never by the request path.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Delete("activities").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete activities query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old activities: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanActivity(row pgx.Row) (*domain.ActivityEvent, error) {
	var e domain.ActivityEvent
	err := row.Scan(
		&e.ID,
		&e.ActivityType,
		&e.WordSearched,
		&e.ResponseSource,
		&e.TokensUsed,
		&e.ResponseTimeMs,
		&e.Success,
		&e.ErrorMessage,
		&e.UserID,
		&e.UserEmail,
		&e.UserAgent,
		&e.IPAddress,
		&e.SessionID,
		&e.Metadata,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

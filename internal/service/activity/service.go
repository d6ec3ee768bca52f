// Package activity implements best-effort usage logging and the aggregate
// dashboard queries built on top of the log.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// userStatsWindow bounds the per-user reduction. Stats are computed in
	// memory over the user's most recent events, not over the full history.
	userStatsWindow = 100

	recentActivityLimit = 20
)

type activityRepo interface {
	Create(ctx context.Context, event *domain.ActivityEvent) (*domain.ActivityEvent, error)
	ListRecent(ctx context.Context, userID *string, limit int) ([]domain.ActivityEvent, error)
	AggregateSearches(ctx context.Context, since time.Time) (*domain.SearchAggregate, error)
}

// Service implements activity logging and dashboard aggregation.
type Service struct {
	log    *slog.Logger
	events activityRepo
}

// NewService creates a new Activity service.
func NewService(logger *slog.Logger, events activityRepo) *Service {
	return &Service{
		log:    logger.With("service", "activity"),
		events: events,
	}
}

// Record writes one event. Delivery is best-effort: any write failure is
// logged and swallowed so the caller's primary response path is never
// interrupted. The returned event carries the assigned ID when the write
// succeeded, nil otherwise.
func (s *Service) Record(ctx context.Context, event *domain.ActivityEvent) *domain.ActivityEvent {
	if !event.ActivityType.IsValid() {
		s.log.WarnContext(ctx, "dropping event with unknown activity type",
			slog.String("activity_type", event.ActivityType.String()),
		)
		return nil
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		s.log.WarnContext(ctx, "activity write failed",
			slog.String("activity_type", event.ActivityType.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return created
}

// ListRecent returns the newest events, optionally scoped to one user.
// Limit is clamped to [1, 100], defaulting 0 to 20.
func (s *Service) ListRecent(ctx context.Context, userID *string, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.events.ListRecent(ctx, userID, limit)
}

// Analytics computes the aggregate dashboard payload for the timeframe.
// An invalid timeframe falls back to day, matching the dashboard's default.
func (s *Service) Analytics(ctx context.Context, timeframe domain.Timeframe) (*domain.Analytics, error) {
	if !timeframe.IsValid() {
		timeframe = domain.TimeframeDay
	}

	agg, err := s.events.AggregateSearches(ctx, timeframe.Start(time.Now()))
	if err != nil {
		return nil, err
	}

	analytics := &domain.Analytics{
		TotalSearches:       agg.TotalSearches,
		UniqueWords:         agg.UniqueWords,
		TotalTokensUsed:     agg.TotalTokensUsed,
		AverageResponseTime: agg.AverageResponseTime,
		SourceBreakdown: domain.SourceBreakdown{
			Database: agg.DatabaseCount,
			Gemini:   agg.GeminiCount,
			Error:    agg.ErrorCount,
		},
	}
	if agg.TotalSearches > 0 {
		analytics.SuccessRate = float64(agg.SuccessfulSearches) / float64(agg.TotalSearches) * 100
	}

	return analytics, nil
}

// UserStats reduces the user's most recent events into the per-user
// dashboard payload. The reduction runs in memory over a bounded window.
func (s *Service) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "required")
	}

	events, err := s.events.ListRecent(ctx, &userID, userStatsWindow)
	if err != nil {
		return nil, err
	}

	stats := &domain.UserStats{RecentActivity: []domain.ActivityEvent{}}

	uniqueWords := map[string]struct{}{}
	totalResponseTime := 0
	successes := 0
	searches := 0

	for _, e := range events {
		switch e.ActivityType {
		case domain.ActivityWordSearch:
			stats.TotalSearches++
			searches++
			totalResponseTime += e.ResponseTimeMs
			if e.Success {
				successes++
			}
			if e.TokensUsed != nil {
				stats.TotalTokensUsed += *e.TokensUsed
			}
			if e.WordSearched != nil && *e.WordSearched != "" {
				uniqueWords[*e.WordSearched] = struct{}{}
			}
			switch e.ResponseSource {
			case domain.SourceDatabase:
				stats.SourceBreakdown.Database++
			case domain.SourceGemini:
				stats.SourceBreakdown.Gemini++
			default:
				stats.SourceBreakdown.Error++
			}
		case domain.ActivityAudioGeneration:
			stats.TotalAudioGenerations++
			if e.TokensUsed != nil {
				stats.TotalTokensUsed += *e.TokensUsed
			}
		}
	}

	stats.UniqueWordsSearched = len(uniqueWords)
	if searches > 0 {
		stats.AverageResponseTime = totalResponseTime / searches
		stats.SuccessRate = float64(successes) / float64(searches) * 100
	}

	if len(events) > recentActivityLimit {
		events = events[:recentActivityLimit]
	}
	stats.RecentActivity = events

	return stats, nil
}

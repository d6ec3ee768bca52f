package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies one logged user-facing operation.
type ActivityType string

const (
	ActivityWordSearch          ActivityType = "word_search"
	ActivityAudioGeneration     ActivityType = "audio_generation"
	ActivityUserRegistration    ActivityType = "user_registration"
	ActivityUserLogin           ActivityType = "user_login"
	ActivityCorrectionAccepted  ActivityType = "spelling_correction_accepted"
	ActivityCorrectionDismissed ActivityType = "spelling_correction_dismissed"
)

func (t ActivityType) String() string { return string(t) }

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityWordSearch, ActivityAudioGeneration, ActivityUserRegistration,
		ActivityUserLogin, ActivityCorrectionAccepted, ActivityCorrectionDismissed:
		return true
	}
	return false
}

// ResponseSource records where a response was served from.
type ResponseSource string

const (
	SourceDatabase ResponseSource = "database"
	SourceGemini   ResponseSource = "gemini"
	SourceCache    ResponseSource = "cache"
	SourceError    ResponseSource = "error"
)

func (s ResponseSource) String() string { return string(s) }

func (s ResponseSource) IsValid() bool {
	switch s {
	case SourceDatabase, SourceGemini, SourceCache, SourceError:
		return true
	}
	return false
}

// ActivityEvent is one entry of the usage log. Write-mostly; read only for
// aggregate dashboard statistics. Never updated or deleted.
type ActivityEvent struct {
	ID             uuid.UUID
	ActivityType   ActivityType
	WordSearched   *string
	ResponseSource ResponseSource
	TokensUsed     *int
	ResponseTimeMs int
	Success        bool
	ErrorMessage   *string
	UserID         *string
	UserEmail      *string
	UserAgent      *string
	IPAddress      string
	SessionID      *string
	Metadata       map[string]any
	CreatedAt      time.Time
}

// SearchAggregate is the raw per-window aggregate over word search events,
// before presentation-level rates are derived.
type SearchAggregate struct {
	TotalSearches       int
	UniqueWords         int
	TotalTokensUsed     int
	AverageResponseTime int
	SuccessfulSearches  int
	DatabaseCount       int
	GeminiCount         int
	ErrorCount          int
}

// Analytics is the aggregate dashboard payload for a timeframe.
type Analytics struct {
	TotalSearches       int
	UniqueWords         int
	TotalTokensUsed     int
	AverageResponseTime int
	SuccessRate         float64
	SourceBreakdown     SourceBreakdown
}

// SourceBreakdown counts events per response source. Sources other than
// database and gemini are folded into Error, matching the dashboard's view.
type SourceBreakdown struct {
	Database int
	Gemini   int
	Error    int
}

// UserStats is the per-user aggregate dashboard payload.
type UserStats struct {
	TotalSearches         int
	TotalAudioGenerations int
	TotalTokensUsed       int
	AverageResponseTime   int
	SuccessRate           float64
	UniqueWordsSearched   int
	SourceBreakdown       SourceBreakdown
	RecentActivity        []ActivityEvent
}

// Timeframe selects the analytics aggregation window.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// Start returns the window's lower bound relative to now.
func (t Timeframe) Start(now time.Time) time.Time {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}

func (t Timeframe) IsValid() bool {
	switch t {
	case TimeframeDay, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}

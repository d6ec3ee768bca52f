package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

// activityService defines the minimal interface needed by ActivityHandler.
type activityService interface {
	Record(ctx context.Context, event *domain.ActivityEvent) *domain.ActivityEvent
	ListRecent(ctx context.Context, userID *string, limit int) ([]domain.ActivityEvent, error)
	Analytics(ctx context.Context, timeframe domain.Timeframe) (*domain.Analytics, error)
	UserStats(ctx context.Context, userID string) (*domain.UserStats, error)
}

// ActivityHandler serves the activity log and dashboard endpoints.
type ActivityHandler struct {
	svc activityService
	log *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc activityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: logger.With("handler", "activity")}
}

// activityRequest is the client-side "backup" event payload. The server
// addresses and timestamps the event itself.
type activityRequest struct {
	ActivityType   string         `json:"activityType"`
	WordSearched   *string        `json:"wordSearched,omitempty"`
	ResponseSource string         `json:"responseSource,omitempty"`
	TokensUsed     *int           `json:"tokensUsed,omitempty"`
	ResponseTimeMs int            `json:"responseTimeMs,omitempty"`
	Success        bool           `json:"success"`
	ErrorMessage   *string        `json:"errorMessage,omitempty"`
	UserID         *string        `json:"userId,omitempty"`
	UserEmail      *string        `json:"userEmail,omitempty"`
	SessionID      *string        `json:"sessionId,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type activityResponse struct {
	ID             string         `json:"id"`
	ActivityType   string         `json:"activityType"`
	WordSearched   *string        `json:"wordSearched,omitempty"`
	ResponseSource string         `json:"responseSource,omitempty"`
	TokensUsed     *int           `json:"tokensUsed,omitempty"`
	ResponseTimeMs int            `json:"responseTimeMs"`
	Success        bool           `json:"success"`
	ErrorMessage   *string        `json:"errorMessage,omitempty"`
	UserID         *string        `json:"userId,omitempty"`
	UserEmail      *string        `json:"userEmail,omitempty"`
	IPAddress      string         `json:"ipAddress"`
	SessionID      *string        `json:"sessionId,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Create handles POST /api/activity.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event := &domain.ActivityEvent{
		ActivityType:   domain.ActivityType(req.ActivityType),
		WordSearched:   req.WordSearched,
		ResponseSource: domain.ResponseSource(req.ResponseSource),
		TokensUsed:     req.TokensUsed,
		ResponseTimeMs: req.ResponseTimeMs,
		Success:        req.Success,
		ErrorMessage:   req.ErrorMessage,
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		UserAgent:      optionalHeader(r, "User-Agent"),
		IPAddress:      ctxutil.ClientIPFromCtx(r.Context()),
		SessionID:      req.SessionID,
		Metadata:       req.Metadata,
	}

	created := h.svc.Record(r.Context(), event)
	if created == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      created.ID.String(),
	})
}

// List handles GET /api/activity?user_id=&limit=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var userID *string
	if v := q.Get("user_id"); v != "" {
		userID = &v
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	events, err := h.svc.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list activities failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"activities": toActivityResponses(events),
	})
}

func toActivityResponses(events []domain.ActivityEvent) []activityResponse {
	out := make([]activityResponse, 0, len(events))
	for _, e := range events {
		out = append(out, activityResponse{
			ID:             e.ID.String(),
			ActivityType:   e.ActivityType.String(),
			WordSearched:   e.WordSearched,
			ResponseSource: e.ResponseSource.String(),
			TokensUsed:     e.TokensUsed,
			ResponseTimeMs: e.ResponseTimeMs,
			Success:        e.Success,
			ErrorMessage:   e.ErrorMessage,
			UserID:         e.UserID,
			UserEmail:      e.UserEmail,
			IPAddress:      e.IPAddress,
			SessionID:      e.SessionID,
			Metadata:       e.Metadata,
			CreatedAt:      e.CreatedAt,
		})
	}
	return out
}

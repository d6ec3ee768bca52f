package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

type analyticsResponse struct {
	TotalSearches       int                     `json:"totalSearches"`
	UniqueWords         int                     `json:"uniqueWords"`
	TotalTokensUsed     int                     `json:"totalTokensUsed"`
	AverageResponseTime int                     `json:"averageResponseTime"`
	SuccessRate         float64                 `json:"successRate"`
	SourceBreakdown     sourceBreakdownResponse `json:"sourceBreakdown"`
}

type sourceBreakdownResponse struct {
	Database int `json:"database"`
	Gemini   int `json:"gemini"`
	Error    int `json:"error"`
}

type userStatsResponse struct {
	TotalSearches         int                     `json:"totalSearches"`
	TotalAudioGenerations int                     `json:"totalAudioGenerations"`
	TotalTokensUsed       int                     `json:"totalTokensUsed"`
	AverageResponseTime   int                     `json:"averageResponseTime"`
	SuccessRate           float64                 `json:"successRate"`
	UniqueWordsSearched   int                     `json:"uniqueWordsSearched"`
	SourceBreakdown       sourceBreakdownResponse `json:"sourceBreakdown"`
	RecentActivity        []activityResponse      `json:"recentActivity"`
}

// Analytics handles GET /api/analytics?timeframe=day|week|month.
func (h *ActivityHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	timeframe := domain.Timeframe(r.URL.Query().Get("timeframe"))

	analytics, err := h.svc.Analytics(r.Context(), timeframe)
	if err != nil {
		h.log.ErrorContext(r.Context(), "analytics failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"analytics": analyticsResponse{
			TotalSearches:       analytics.TotalSearches,
			UniqueWords:         analytics.UniqueWords,
			TotalTokensUsed:     analytics.TotalTokensUsed,
			AverageResponseTime: analytics.AverageResponseTime,
			SuccessRate:         analytics.SuccessRate,
			SourceBreakdown:     toSourceBreakdown(analytics.SourceBreakdown),
		},
	})
}

// UserStats handles GET /api/user-stats?user_id=.
func (h *ActivityHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	stats, err := h.svc.UserStats(r.Context(), userID)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "user_id parameter is required")
			return
		}
		h.log.ErrorContext(r.Context(), "user stats failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": userStatsResponse{
			TotalSearches:         stats.TotalSearches,
			TotalAudioGenerations: stats.TotalAudioGenerations,
			TotalTokensUsed:       stats.TotalTokensUsed,
			AverageResponseTime:   stats.AverageResponseTime,
			SuccessRate:           stats.SuccessRate,
			UniqueWordsSearched:   stats.UniqueWordsSearched,
			SourceBreakdown:       toSourceBreakdown(stats.SourceBreakdown),
			RecentActivity:        toActivityResponses(stats.RecentActivity),
		},
	})
}

func toSourceBreakdown(b domain.SourceBreakdown) sourceBreakdownResponse {
	return sourceBreakdownResponse{
		Database: b.Database,
		Gemini:   b.Gemini,
		Error:    b.Error,
	}
}

// Package rest serves the JSON HTTP surface: dictionary lookup, text to
// speech, the activity log, and dashboard aggregates.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// callerIdentity resolves the optional caller for activity logging.
// Explicit query parameters win over the verified token identity, matching
// the client contract where the frontend passes user_id/user_email along.
func callerIdentity(r *http.Request) (userID, userEmail *string) {
	if v := r.URL.Query().Get("user_id"); v != "" {
		userID = &v
	}
	if v := r.URL.Query().Get("user_email"); v != "" {
		userEmail = &v
	}
	if userID != nil {
		return userID, userEmail
	}
	if identity, ok := ctxutil.IdentityFromCtx(r.Context()); ok {
		userID = &identity.UserID
		if identity.Email != "" && userEmail == nil {
			userEmail = &identity.Email
		}
	}
	return userID, userEmail
}

func optionalHeader(r *http.Request, name string) *string {
	if v := r.Header.Get(name); v != "" {
		return &v
	}
	return nil
}

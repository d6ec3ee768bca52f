package rest

import "net/http"

// Handlers groups everything the router mounts.
type Handlers struct {
	Dictionary *DictionaryHandler
	TTS        *TTSHandler
	Activity   *ActivityHandler
	Health     *HealthHandler
}

// NewRouter mounts the API and health endpoints.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/dictionary", h.Dictionary.Lookup)
	mux.HandleFunc("GET /api/tts", h.TTS.Synthesize)
	mux.HandleFunc("POST /api/activity", h.Activity.Create)
	mux.HandleFunc("GET /api/activity", h.Activity.List)
	mux.HandleFunc("GET /api/analytics", h.Activity.Analytics)
	mux.HandleFunc("GET /api/user-stats", h.Activity.UserStats)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /live", h.Health.Live)

	return mux
}

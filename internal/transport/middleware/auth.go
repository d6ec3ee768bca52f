package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	Verify(token string) (ctxutil.Identity, error)
}

// Auth returns middleware that attaches the caller identity extracted from
// a bearer token. Requests without a token pass through as anonymous; an
// invalid token is rejected outright.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

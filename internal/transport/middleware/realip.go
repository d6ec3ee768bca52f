package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

// LocalhostMarker replaces loopback addresses in derived client IPs so that
// local-development traffic is legible in the activity log.
const LocalhostMarker = "localhost-dev"

// ipHeaders is the proxy header priority for client IP derivation.
var ipHeaders = []string{
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"X-Real-IP",
	"X-Client-IP",
}

// RealIP derives the client IP from proxy headers and stores it in the
// request context for the rate limiter and the activity log.
func RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxutil.WithClientIP(r.Context(), ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP resolves the requester's address. Proxy headers win over the
// socket address; X-Forwarded-For contributes only its first hop.
func ClientIP(r *http.Request) string {
	for _, h := range ipHeaders {
		v := strings.TrimSpace(r.Header.Get(h))
		if v == "" {
			continue
		}
		if h == "X-Forwarded-For" {
			v = strings.TrimSpace(strings.Split(v, ",")[0])
			if v == "" {
				continue
			}
		}
		return rewriteLoopback(v)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return rewriteLoopback(host)
}

func rewriteLoopback(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil && parsed.IsLoopback() {
		return LocalhostMarker
	}
	return ip
}

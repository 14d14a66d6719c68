package middleware

import (
	"net/http"
	"strings"
)

// ClientIP resolves the real client address behind the CDN and reverse
// proxy. Precedence: CF-Connecting-IP, then the first X-Forwarded-For
// entry, then X-Real-IP. Earlier revisions of the usage gate metered by
// this address; it still keys the edge rate limiter.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return "127.0.0.1"
}

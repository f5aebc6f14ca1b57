package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const (
	// ClientIPContextKey holds the caller address set by WithClientIP.
	ClientIPContextKey contextKey = "client_ip"
)

// WithClientIP stores the caller address in the context for rate limiting
// and logs. Proxy headers are trusted, so the app must only be reachable
// through the reverse proxy.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ClientIPContextKey, GetClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIPFromContext returns the address stored by WithClientIP, or "".
func GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPContextKey).(string)
	return ip
}

// GetClientIP picks the caller address: the first X-Forwarded-For hop, then
// X-Real-IP, then the socket peer. Header values that do not parse as an IP
// are skipped.
func GetClientIP(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	for _, candidate := range []string{first, r.Header.Get("X-Real-IP")} {
		if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return addr.Unmap().String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig configures the headers added to every response.
// An empty string or zero value leaves that header unset.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	// NoStorePrefixes marks responses under these paths Cache-Control: no-store.
	// Carts, orders and profiles are per user and must not be cached by proxies.
	NoStorePrefixes []string
}

// DefaultSecurityHeadersConfig returns headers for a JSON API: nothing may be
// framed or loaded from responses.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
		NoStorePrefixes: []string{
			"/api/auth/", "/api/cart", "/api/wishlist", "/api/orders", "/api/admin/",
		},
	}
}

// SecurityHeaders adds the configured headers to all responses. The header
// set is built once.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	static := http.Header{}
	static.Set("X-Content-Type-Options", "nosniff")
	// Modern browsers ignore the XSS auditor; 0 disables it in old ones.
	static.Set("X-XSS-Protection", "0")

	set := func(key, value string) {
		if value != "" {
			static.Set(key, value)
		}
	}
	set("Content-Security-Policy", config.ContentSecurityPolicy)
	set("X-Frame-Options", config.FrameOptions)
	set("Referrer-Policy", config.ReferrerPolicy)
	set("Permissions-Policy", config.PermissionsPolicy)

	if config.HSTSMaxAge > 0 {
		hsts := "max-age=" + strconv.Itoa(config.HSTSMaxAge)
		if config.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		static.Set("Strict-Transport-Security", hsts)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range static {
				h[k] = v
			}
			for _, prefix := range config.NoStorePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					h.Set("Cache-Control", "no-store")
					break
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
)

// Body size limits.
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize covers every JSON endpoint.
	DefaultMaxBodySize = 10 * MB

	// UploadMaxBodySize is for cover and profile images.
	UploadMaxBodySize = 5 * MB
)

// Request deadlines.
const (
	DefaultTimeout = 30 * time.Second

	// UploadTimeout leaves room for the object storage round trip.
	UploadTimeout = 2 * time.Minute
)

// MaxBodySize caps request bodies at limit bytes, DefaultMaxBodySize when
// omitted. A declared Content-Length over the cap gets 413 before the
// handler runs; an undeclared body fails once the handler reads past it.
func MaxBodySize(limit ...int64) func(http.Handler) http.Handler {
	maxBytes := firstOr(limit, DefaultMaxBodySize)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				respondTooLarge(w, r, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout bounds a request to d, DefaultTimeout when omitted. A handler
// that has not written anything when the deadline passes is answered with
// 503; one that already started writing is cut off. Streaming routes must
// not use it since the wrapped writer cannot flush.
func Timeout(d ...time.Duration) func(http.Handler) http.Handler {
	deadline := firstOr(d, DefaultTimeout)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), deadline)
			defer cancel()

			gw := &guardedWriter{w: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if gw.expire() {
					respondWithError(w, r, domain.Unavailable(ctx.Err(), "http.timeout"))
				}
			}
		})
	}
}

func firstOr[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

// guardedWriter stops forwarding writes once the request has expired.
type guardedWriter struct {
	w       http.ResponseWriter
	mu      sync.Mutex
	started bool
	expired bool
}

// expire marks the writer dead and reports whether nothing was sent yet.
func (g *guardedWriter) expire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = true
	return !g.started
}

func (g *guardedWriter) Header() http.Header {
	return g.w.Header()
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started || g.expired {
		return
	}
	g.started = true
	g.w.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	g.started = true
	return g.w.Write(b)
}

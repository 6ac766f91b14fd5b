package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
)

// responseTap records what the handler sent.
type responseTap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTap) WriteHeader(code int) {
	if t.status == 0 {
		t.status = code
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTap) Write(b []byte) (int, error) {
	if t.status == 0 {
		t.status = http.StatusOK
	}
	n, err := t.ResponseWriter.Write(b)
	t.bytes += n
	return n, err
}

func (t *responseTap) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}

// Logging writes one access line per request and feeds request latency, labelled by chi
// route pattern, to m. Server errors log at warn so they stand out from normal traffic.
func Logging(logg *logger.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tap := &responseTap{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(tap, r)

			if tap.status == 0 {
				tap.status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			m.Observe(r.Method, route, tap.status, elapsed)

			if logg == nil {
				return
			}
			ctx := logg.WithFields(r.Context(), logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       route,
				"status":      tap.status,
				"bytes":       tap.bytes,
				"duration_ms": elapsed.Milliseconds(),
			})
			if tap.status >= http.StatusInternalServerError {
				logg.Warn(ctx, "request.complete")
				return
			}
			logg.Info(ctx, "request.complete")
		})
	}
}

// routePattern is read after the handler ran, once chi has resolved the full pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

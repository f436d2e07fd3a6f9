package metrics

import (
	"net/http"
	"strings"
	"time"
)

// statusRecorder wraps http.ResponseWriter to capture the status code,
// defaulting to 200 when the handler never calls WriteHeader.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the matched ServeMux pattern with its method
// prefix stripped, so /api/backtest/{id} stays one series regardless
// of the job ID. Unmatched requests fall back to the raw URL path.
func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return r.URL.Path
	}
	if _, route, ok := strings.Cut(pattern, " "); ok {
		return route
	}
	return pattern
}

// HTTPMiddleware returns middleware that records request count,
// duration and in-flight gauge for every route. It must wrap the mux
// itself: the pattern label is read after routing has matched.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)

			reg.RecordRequest(r.Method, routeLabel(r), sr.status, time.Since(start).Seconds())
		})
	}
}

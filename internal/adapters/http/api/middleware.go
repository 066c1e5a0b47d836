package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// instrument records count, latency and error class for every request to
// endpoint, and tags the request context so component logs name it.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		ctx := logger.WithFields(r.Context(),
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method))
		next(rec, r.WithContext(ctx))

		status := rec.status()
		ms := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, ms)
		if kind := errorClass(r.Context(), status); kind != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
		}
	}
}

// errorClass labels failed requests; it is empty for successes.
func errorClass(ctx context.Context, status int) string {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return "client_closed"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.code == 0 {
		rw.code = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.code == 0 {
		rw.code = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) status() int {
	if rw.code == 0 {
		return http.StatusOK
	}
	return rw.code
}

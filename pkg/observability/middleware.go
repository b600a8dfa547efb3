package observability

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsMiddleware wraps an HTTP handler to record request metrics.
//
// It captures:
//   - aicogchat_backend_requests_total (counter): per request with method, path and status class
//   - aicogchat_backend_request_duration_seconds (histogram): duration with method and path
//   - aicogchat_backend_streams_active (gauge): incremented while an SSE response is in flight
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if sw.streaming {
			BackendStreamsActive.Dec()
		}

		statusStr := strconv.Itoa(sw.status/100) + "xx"
		BackendRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusStr).Inc()
		BackendRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code and
// whether the response is an event stream.
type statusWriter struct {
	http.ResponseWriter
	status    int
	written   bool
	streaming bool
}

// WriteHeader captures the status code and delegates to the underlying writer.
func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		if w.Header().Get("Content-Type") == "text/event-stream" {
			w.streaming = true
			BackendStreamsActive.Inc()
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write delegates to the underlying writer, writing an implicit 200 header first.
func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush delegates to the underlying writer if it implements http.Flusher.
// This is essential for SSE streaming support.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter, enabling http.ResponseController
// and similar utilities to access the original writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

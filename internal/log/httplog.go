package log

import (
	"net/http"
	"time"
)

// statusRecorder captures the status and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// LogHTTPRequest logs a completed HTTP request. Server errors are logged at
// error level.
func LogHTTPRequest(method, path string, status int, duration time.Duration, size int, remoteAddr, userAgent string) {
	fields := []any{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size", size,
		"remote_addr", remoteAddr,
		"user_agent", userAgent,
	}
	if status >= http.StatusInternalServerError {
		sugared().Errorw("http request", fields...)
		return
	}
	sugared().Infow("http request", fields...)
}

// HTTPMiddleware wraps next so that every request is passed to
// LogHTTPRequest.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		LogHTTPRequest(r.Method, r.URL.Path, rec.status, time.Since(start), rec.size, r.RemoteAddr, r.UserAgent())
	})
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics пишет метрики и лог каждого запроса.
// Маршрут берётся из шаблона mux, чтобы id не раздували кардинальность.
func Metrics(metrics HTTPMetrics, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			elapsed := time.Since(start)
			metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)
			logger.Info("%s %s -> %d (%s) request_id=%s", r.Method, route, rec.status, elapsed, GetRequestID(r.Context()))
		})
	}
}

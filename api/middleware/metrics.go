package middleware

import (
	"net/http"
	"strconv"

	"github.com/tldpricer/tldpricer-backend/pkg/metrics"
)

// Metrics counts every request by route pattern and final status.
func Metrics(m *metrics.QueryMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.IncRequest(r.URL.Path, strconv.Itoa(rec.status))
		})
	}
}

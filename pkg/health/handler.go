package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ReadinessHandler answers 200 when every check passes and 503 otherwise.
// The body is "OK" or "Service Unavailable" as text/plain, or the Report as
// JSON for Accept: application/json and ?format=json.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := cfg.run(r.Context(), checks)
		status := http.StatusOK
		if err != nil {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Cache-Control", "no-store")
		if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(report)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
	}
}

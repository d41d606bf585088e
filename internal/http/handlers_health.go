package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// healthHandler answers readiness/liveness probes. Every check runs with a
// short timeout; any failing check turns the answer into a 503.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{"status": "ok"}

		if len(names) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			results := make(map[string]string, len(names))
			for _, name := range names {
				if err := checks[name](ctx); err != nil {
					results[name] = err.Error()
					status = http.StatusServiceUnavailable
					body["status"] = "degraded"
					continue
				}
				results[name] = "ok"
			}
			body["checks"] = results
		}

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			return
		}
		WriteJSON(w, status, body)
	}
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
)

// Checks maps a dependency name to its probe.
type Checks map[string]func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// HealthHandler runs every check in parallel and answers 503 if any fails.
func HealthHandler(checks Checks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			healthy = true
			results = make(httpx.M, len(checks))
		)
		for name, check := range checks {
			name, check := name, check
			wg.Add(1)
			go func() {
				defer wg.Done()
				status := "healthy"
				if err := check(ctx); err != nil {
					slog.WarnContext(ctx, "health check failed", "check", name, "err", err)
					status = "unhealthy"
				}
				mu.Lock()
				defer mu.Unlock()
				results[name] = status
				if status != "healthy" {
					healthy = false
				}
			}()
		}
		wg.Wait()

		if !healthy {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, httpx.M{"status": "unhealthy", "checks": results})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, httpx.M{"status": "healthy", "checks": results})
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

const healthcheckTimeout = 2 * time.Second

// Pinger é satisfeito pela conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"status":   "ok",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				log.ForContext(r.Context()).WithError(err).Warn("healthcheck: database unreachable")
				response["status"] = "degraded"
				response["database"] = "unreachable"
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(response)
				return
			}
		}

		writeJSON(w, response)
	})
}

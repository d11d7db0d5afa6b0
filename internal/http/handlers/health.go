package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthCheckHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		if err := db.PingContext(r.Context()); err != nil {
			log.Error("Health check failed to reach the database", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler returns the lifetime counters kept in the database.
func StatsHandler(counters metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := counters.GetAll()
		if err != nil {
			log.Error("Failed to read durable counters", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

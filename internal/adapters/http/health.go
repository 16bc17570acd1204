package httpadapter

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status, database, code := "ok", "connected", http.StatusOK
	if s.db == nil {
		status, database, code = "degraded", "disconnected", http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check: database ping failed", "error", err)
			status, database, code = "degraded", "disconnected", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, envelope{
		"status":    status,
		"service":   s.service,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

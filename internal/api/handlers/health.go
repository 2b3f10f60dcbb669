package handlers

import (
	"database/sql"
	"net/http"
)

// HealthHandler provides liveness and readiness checks.
type HealthHandler struct {
	DB *sql.DB
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

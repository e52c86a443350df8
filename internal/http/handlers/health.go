package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MetricsHandler serves the Prometheus exposition, or 404 when metrics are
// disabled.
func (a *App) MetricsHandler() http.Handler {
	if a.Metrics == nil {
		return http.NotFoundHandler()
	}
	return a.Metrics.Handler()
}

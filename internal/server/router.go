// Package server assembles the HTTP router for the security operations
// service.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/auth"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/handlers"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/httputil"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/middleware"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/repository"
)

// NewRouter constructs the ServeMux. Admin routes require an admin JWT;
// health and metrics endpoints are open.
func NewRouter(h *handlers.Handler, validator *auth.Validator, repo repository.Repository) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			httputil.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	mux.Handle("/metrics", promhttp.Handler())

	requireAdmin := auth.RequireAdmin(validator)

	mux.Handle("/admin/incidents", requireAdmin(http.HandlerFunc(h.IncidentsRoute)))
	mux.Handle("/admin/incidents/", requireAdmin(http.HandlerFunc(h.IncidentsRoute)))
	mux.Handle("/admin/compliance/", requireAdmin(http.HandlerFunc(h.ComplianceRoute)))

	return middleware.RequestID(mux)
}

package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ismailisimba/scraper/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes
func (h *Handler) SetupRoutes(rateLimiter *ratelimit.Limiter, requestsPerHour int) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Task endpoint (rate limited per owner)
	limited := api.PathPrefix("").Subrouter()
	limited.Use(RateLimitMiddleware(rateLimiter, requestsPerHour))
	limited.HandleFunc("/task/{taskName}", h.RunTask).Methods("POST", "OPTIONS")

	// Operational endpoints (not rate limited)
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.Use(corsMiddleware)

	return r
}

// Package httptransport assembles the HTTP surface: middleware stack, module
// routes, health, and metrics. It delegates to domain services without
// embedding business logic so transport concerns remain isolated.
package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/middleware"
)

// Registrar is implemented by each module handler.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints behind the shared middleware stack.
// health maps component names to liveness probes polled on /healthz.
func NewRouter(logger *slog.Logger, handlers []Registrar, health map[string]func() error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler(health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}

func healthHandler(checks map[string]func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				components[name] = "ok"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     http.StatusText(status),
			"components": components,
		})
	}
}

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-assistant/internal/auth"
)

// healthCheckTimeout bounds each component check in GET /health.
const healthCheckTimeout = 3 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.With(s.requirePermission(auth.PermFulfill)).Post("/fulfillment", s.handleFulfillment)

		r.Route("/configuration", func(r chi.Router) {
			r.With(s.requirePermission(auth.PermConfigRead)).Get("/form", s.handleForm)
			r.With(s.requirePermission(auth.PermConfigRead)).Get("/translations", s.handleTranslations)
			r.With(s.requirePermission(auth.PermConfigApply)).Post("/apply", s.handleApply)
			r.With(s.requirePermission(auth.PermConfigRead)).Get("/devices/{type}", s.handleGetDevices)
			r.With(s.requirePermission(auth.PermConfigWrite)).Put("/devices/{type}", s.handlePutDevices)
		})

		// WebSocket authenticates via token query parameter in the handler.
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server version and the state of each component.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.health))
	for name := range s.health {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.health[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":  overall,
		"version": s.version,
		"checks":  checks,
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vakildesk/dwarpal/internal/infrastructure/metrics"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func() error

// NewRouter assembles the HTTP API. All tenant-scoped routes live under
// /v1/tenants/{tenant_id}; the health endpoint is unversioned.
func NewRouter(
	accessHandler *AccessHandler,
	directoryHandler *DirectoryHandler,
	policyHandler *PolicyHandler,
	collector *metrics.Collector,
	exporter *metrics.PrometheusExporter,
	health HealthChecker,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(collector, exporter))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(); err != nil {
				respondError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/tenants/{tenant_id}", func(r chi.Router) {
		r.Post("/check", accessHandler.Check)
		r.Post("/check-multiple", accessHandler.CheckMultiple)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", directoryHandler.List)
			r.Post("/", directoryHandler.Create)

			r.Route("/{employee_id}", func(r chi.Router) {
				r.Get("/", directoryHandler.Get)
				r.Patch("/", directoryHandler.Update)
				r.Post("/deactivate", directoryHandler.Deactivate)
				r.Get("/visible", accessHandler.Visible)
				r.Get("/modules", accessHandler.Modules)
			})
		})

		r.Route("/grants", func(r chi.Router) {
			r.Get("/", policyHandler.List)
			r.Put("/", policyHandler.Replace)
		})
	})

	return r
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/infrastructure/metrics"
	"github.com/vakildesk/dwarpal/internal/services/access"
)

// AccessHandler serves the permission decision API: single and batch
// checks, record visibility, and module visibility for route guards.
type AccessHandler struct {
	checker   access.CheckerInterface
	resolver  *access.ScopeResolver
	collector *metrics.Collector
	exporter  *metrics.PrometheusExporter // nil when Prometheus export is disabled
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(
	checker access.CheckerInterface,
	resolver *access.ScopeResolver,
	collector *metrics.Collector,
	exporter *metrics.PrometheusExporter,
) *AccessHandler {
	return &AccessHandler{
		checker:   checker,
		resolver:  resolver,
		collector: collector,
		exporter:  exporter,
	}
}

type checkRequest struct {
	SubjectID string `json:"subject_id"`
	Module    string `json:"module"`
	Action    string `json:"action"`
}

type checkResponse struct {
	Allowed bool   `json:"allowed"`
	Scope   string `json:"scope,omitempty"`
}

// Check handles POST /v1/tenants/{tenant_id}/check
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	var body checkRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	module, err := entities.ParseModule(body.Module)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	action, err := entities.ParseAction(body.Action)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.SubjectID == "" {
		respondError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	resp, err := h.checker.Check(r.Context(), &access.CheckRequest{
		TenantID:  tenantID,
		SubjectID: body.SubjectID,
		Module:    module,
		Action:    action,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.recordDecision(resp.Allowed)
	respondJSON(w, http.StatusOK, &checkResponse{
		Allowed: resp.Allowed,
		Scope:   resp.Scope.String(),
	})
}

type checkMultipleRequest struct {
	SubjectID string   `json:"subject_id"`
	Module    string   `json:"module"`
	Actions   []string `json:"actions"`
}

type checkMultipleResponse struct {
	Results map[string]bool `json:"results"`
}

// CheckMultiple handles POST /v1/tenants/{tenant_id}/check-multiple
func (h *AccessHandler) CheckMultiple(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	var body checkMultipleRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	module, err := entities.ParseModule(body.Module)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.SubjectID == "" {
		respondError(w, http.StatusBadRequest, "subject_id is required")
		return
	}
	if len(body.Actions) == 0 {
		respondError(w, http.StatusBadRequest, "at least one action is required")
		return
	}

	actions := make([]entities.Action, 0, len(body.Actions))
	for _, raw := range body.Actions {
		action, err := entities.ParseAction(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		actions = append(actions, action)
	}

	results, err := h.checker.CheckMultiple(r.Context(), &access.CheckRequest{
		TenantID:  tenantID,
		SubjectID: body.SubjectID,
		Module:    module,
	}, actions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make(map[string]bool, len(results))
	for action, allowed := range results {
		h.recordDecision(allowed)
		out[action.String()] = allowed
	}

	respondJSON(w, http.StatusOK, &checkMultipleResponse{Results: out})
}

type visibleResponse struct {
	EmployeeIDs []string `json:"employee_ids"`
}

// Visible handles GET /v1/tenants/{tenant_id}/employees/{employee_id}/visible
func (h *AccessHandler) Visible(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	employeeID := chi.URLParam(r, "employee_id")

	ids, err := h.resolver.VisibleEmployeeIDs(r.Context(), tenantID, employeeID)
	if err != nil {
		if errors.Is(err, entities.ErrCyclicHierarchy) {
			// Fail closed: serve the self-only set the resolver returned,
			// but leave a trace for the operator.
			slog.Warn("cyclic manager hierarchy detected",
				"tenant_id", tenantID, "employee_id", employeeID, "error", err)
			respondJSON(w, http.StatusOK, &visibleResponse{EmployeeIDs: ids})
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &visibleResponse{EmployeeIDs: ids})
}

type modulesResponse struct {
	Modules map[string]bool `json:"modules"`
}

// Modules handles GET /v1/tenants/{tenant_id}/employees/{employee_id}/modules
func (h *AccessHandler) Modules(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	employeeID := chi.URLParam(r, "employee_id")

	visible, err := h.checker.VisibleModules(r.Context(), tenantID, employeeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make(map[string]bool, len(visible))
	for module, allowed := range visible {
		out[module.String()] = allowed
	}

	respondJSON(w, http.StatusOK, &modulesResponse{Modules: out})
}

func (h *AccessHandler) recordDecision(allowed bool) {
	h.collector.RecordDecision(allowed)
	if h.exporter != nil {
		h.exporter.RecordDecision(allowed)
	}
}

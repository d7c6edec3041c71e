package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/services"
)

// PolicyHandler serves the grant administration API: reading a tenant's
// effective grant matrix and replacing it wholesale.
type PolicyHandler struct {
	policies services.PolicyServiceInterface
}

// NewPolicyHandler creates a new PolicyHandler.
func NewPolicyHandler(policies services.PolicyServiceInterface) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

type grantPayload struct {
	Role   string `json:"role"`
	Module string `json:"module"`
	Action string `json:"action"`
	Scope  string `json:"scope"`
}

type grantsResponse struct {
	Grants []*grantPayload `json:"grants"`
}

// List handles GET /v1/tenants/{tenant_id}/grants
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	grants, err := h.policies.ListGrants(r.Context(), tenantID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := &grantsResponse{Grants: make([]*grantPayload, 0, len(grants))}
	for _, g := range grants {
		out.Grants = append(out.Grants, &grantPayload{
			Role:   g.Role.String(),
			Module: g.Module.String(),
			Action: g.Action.String(),
			Scope:  g.Scope.String(),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

type replaceGrantsRequest struct {
	Grants []*grantPayload `json:"grants"`
}

// Replace handles PUT /v1/tenants/{tenant_id}/grants. The submitted
// matrix replaces the tenant's grants in full; a partial update is a
// read-modify-write at the caller.
func (h *PolicyHandler) Replace(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	var body replaceGrantsRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.Grants) == 0 {
		respondError(w, http.StatusBadRequest, "at least one grant is required")
		return
	}

	grants := make([]*entities.Grant, 0, len(body.Grants))
	for _, p := range body.Grants {
		grant := &entities.Grant{
			Role:   entities.PermissionRole(p.Role),
			Module: entities.Module(p.Module),
			Action: entities.Action(p.Action),
			Scope:  entities.Scope(p.Scope),
		}
		if err := grant.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		grants = append(grants, grant)
	}

	if err := h.policies.ReplaceGrants(r.Context(), tenantID, grants); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

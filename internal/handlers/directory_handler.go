package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vakildesk/dwarpal/internal/entities"
	"github.com/vakildesk/dwarpal/internal/repositories"
	"github.com/vakildesk/dwarpal/internal/services"
)

// DirectoryHandler serves the employee lifecycle API: create, list,
// get, role/manager changes, and deactivation.
type DirectoryHandler struct {
	directory services.DirectoryServiceInterface
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory services.DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type employeeResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	ManagerID string    `json:"manager_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEmployeeResponse(e *entities.Employee) *employeeResponse {
	return &employeeResponse{
		ID:        e.ID,
		TenantID:  e.TenantID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role.String(),
		ManagerID: e.ManagerID,
		Status:    e.Status.String(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type createEmployeeRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID string `json:"manager_id"`
}

// Create handles POST /v1/tenants/{tenant_id}/employees
func (h *DirectoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	var body createEmployeeRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := entities.ParseOperationalRole(body.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.directory.CreateEmployee(r.Context(), tenantID, &services.CreateEmployeeInput{
		Name:      body.Name,
		Email:     body.Email,
		Role:      role,
		ManagerID: body.ManagerID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toEmployeeResponse(employee))
}

// Get handles GET /v1/tenants/{tenant_id}/employees/{employee_id}
func (h *DirectoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	employeeID := chi.URLParam(r, "employee_id")

	employee, err := h.directory.GetEmployee(r.Context(), tenantID, employeeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

type listEmployeesResponse struct {
	Employees []*employeeResponse `json:"employees"`
}

// List handles GET /v1/tenants/{tenant_id}/employees
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	filter := &repositories.EmployeeFilter{}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := entities.ParseOperationalRole(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Role = role
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := entities.ParseEmployeeStatus(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	if raw := r.URL.Query().Get("manager_id"); raw != "" {
		filter.ManagerID = raw
	}

	employees, err := h.directory.ListEmployees(r.Context(), tenantID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := &listEmployeesResponse{Employees: make([]*employeeResponse, 0, len(employees))}
	for _, e := range employees {
		out.Employees = append(out.Employees, toEmployeeResponse(e))
	}

	respondJSON(w, http.StatusOK, out)
}

type updateEmployeeRequest struct {
	Role      *string `json:"role"`
	ManagerID *string `json:"manager_id"`
}

// Update handles PATCH /v1/tenants/{tenant_id}/employees/{employee_id}.
// Only role and manager are mutable through this endpoint.
func (h *DirectoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	employeeID := chi.URLParam(r, "employee_id")

	var body updateEmployeeRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Role == nil && body.ManagerID == nil {
		respondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if body.Role != nil {
		role, err := entities.ParseOperationalRole(*body.Role)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.directory.ChangeRole(r.Context(), tenantID, employeeID, role); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	if body.ManagerID != nil {
		if err := h.directory.ReassignManager(r.Context(), tenantID, employeeID, *body.ManagerID); err != nil {
			if errors.Is(err, entities.ErrCyclicHierarchy) {
				respondError(w, http.StatusConflict, "reassignment would create a cycle in the manager hierarchy")
				return
			}
			respondServiceError(w, err)
			return
		}
	}

	employee, err := h.directory.GetEmployee(r.Context(), tenantID, employeeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// Deactivate handles POST /v1/tenants/{tenant_id}/employees/{employee_id}/deactivate
func (h *DirectoryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	employeeID := chi.URLParam(r, "employee_id")

	if err := h.directory.Deactivate(r.Context(), tenantID, employeeID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

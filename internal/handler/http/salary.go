package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/salary"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	// Components
	CreateComponent(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)

	// Employee Components
	AssignComponent(w http.ResponseWriter, r *http.Request)
	EndAssignment(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	ActiveComponents(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.Service
	calendar      utils.Calendar
}

func NewSalaryHandler(salaryService salary.Service, calendar utils.Calendar) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService, calendar: calendar}
}

// ========== COMPONENTS ==========

func (h *salaryHandlerImpl) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	component, err := h.salaryService.CreateComponent(r.Context(), req, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary component created", salary.NewComponentResponse(component))
}

func (h *salaryHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	activeOnly := getBoolQueryParam(r, "active_only", false)

	components, err := h.salaryService.ListComponents(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]salary.ComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, salary.NewComponentResponse(c))
	}
	response.Success(w, result)
}

// ========== EMPLOYEE COMPONENTS ==========

func (h *salaryHandlerImpl) AssignComponent(w http.ResponseWriter, r *http.Request) {
	var req salary.AssignComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	assignment, err := h.salaryService.Assign(r.Context(), req, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary component assigned", salary.NewAssignmentResponse(assignment))
}

func (h *salaryHandlerImpl) EndAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req salary.EndAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	endDate, _ := utils.ParseDate(req.EndDate)

	if err := h.salaryService.EndAssignment(r.Context(), id, endDate, middleware.ActorFromContext(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component assignment ended", nil)
}

func (h *salaryHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	assignments, err := h.salaryService.ListAssignments(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]salary.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, salary.NewAssignmentResponse(a))
	}
	response.Success(w, result)
}

// ActiveComponents lists the components in force on ?as_of=YYYY-MM-DD (default today).
func (h *salaryHandlerImpl) ActiveComponents(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	asOf := h.calendar.Today()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.HandleError(w, validator.ValidationErrors{{Field: "as_of", Message: "as_of must be YYYY-MM-DD"}})
			return
		}
		asOf = parsed
	}

	components, err := h.salaryService.ActiveForEmployee(r.Context(), employeeID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]salary.AppliedComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, salary.NewAppliedComponentResponse(c))
	}
	response.Success(w, result)
}

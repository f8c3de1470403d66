package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	// Requests
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ValidateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	ListEmployeeRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	// Types and balances
	ListTypes(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	AllocateBalances(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.Service
	calendar     utils.Calendar
}

func NewLeaveHandler(leaveService leave.Service, calendar utils.Calendar) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService, calendar: calendar}
}

func decodeLeaveRequest(r *http.Request) (leave.Request, error) {
	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return leave.Request{}, errInvalidBody
	}
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}
	return req.ToRequest(), nil
}

// ========== REQUESTS ==========

func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLeaveRequest(r)
	if errors.Is(err, errInvalidBody) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !middleware.CanActFor(r, req.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return
	}

	created, err := h.leaveService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.NewLeaveRequestResponse(created))
}

// ValidateRequest runs the ledger's checks without filing anything.
func (h *leaveHandlerImpl) ValidateRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLeaveRequest(r)
	if errors.Is(err, errInvalidBody) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !middleware.CanActFor(r, req.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return
	}

	ok, reason := h.leaveService.Validate(r.Context(), req)
	response.Success(w, leave.ValidateResponse{Valid: ok, Reason: reason})
}

func (h *leaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.ownedRequest(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	response.Success(w, leave.NewLeaveRequestResponse(req))
}

func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.leaveService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLeaveRequestResponses(requests))
}

func (h *leaveHandlerImpl) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.leaveService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLeaveRequestResponses(requests))
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := h.leaveService.Approve(r.Context(), id, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, "Leave request already processed")
		return
	}

	h.respondWithRequest(w, r, id, "Leave request approved")
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req leave.RejectLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ok, err := h.leaveService.Reject(r.Context(), id, middleware.ActorFromContext(r), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, "Leave request already processed")
		return
	}

	h.respondWithRequest(w, r, id, "Leave request rejected")
}

func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, owned := h.ownedRequest(w, r, id); !owned {
		return
	}

	ok, err := h.leaveService.Cancel(r.Context(), id, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, "Only pending leave requests can be cancelled")
		return
	}

	h.respondWithRequest(w, r, id, "Leave request cancelled")
}

// ownedRequest loads a request the caller may act on. It writes the error response and
// returns false otherwise.
func (h *leaveHandlerImpl) ownedRequest(w http.ResponseWriter, r *http.Request, id string) (leave.Request, bool) {
	req, err := h.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return leave.Request{}, false
	}
	if !middleware.CanActFor(r, req.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return leave.Request{}, false
	}
	return req, true
}

func (h *leaveHandlerImpl) respondWithRequest(w http.ResponseWriter, r *http.Request, id, message string) {
	req, err := h.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, leave.NewLeaveRequestResponse(req))
}

func toLeaveRequestResponses(requests []leave.Request) []leave.LeaveRequestResponse {
	result := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		result = append(result, leave.NewLeaveRequestResponse(req))
	}
	return result
}

// ========== TYPES & BALANCES ==========

func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		result = append(result, leave.NewLeaveTypeResponse(t))
	}
	response.Success(w, result)
}

func (h *leaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", h.calendar.Today().Year())

	balances, err := h.leaveService.Balances(r.Context(), chi.URLParam(r, "employeeID"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		result = append(result, leave.NewBalanceResponse(b))
	}
	response.Success(w, result)
}

func (h *leaveHandlerImpl) AllocateBalances(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", h.calendar.Today().Year())

	created, err := h.leaveService.AllocateBalances(r.Context(), year, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balances allocated", map[string]int{
		"year":          year,
		"created_count": created,
	})
}

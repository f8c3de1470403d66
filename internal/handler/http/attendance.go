package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	AddManual(w http.ResponseWriter, r *http.Request)

	ListByDate(w http.ResponseWriter, r *http.Request)
	ListByRange(w http.ResponseWriter, r *http.Request)
	MonthlyStats(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !middleware.CanActFor(r, req.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return
	}

	ok, err := h.attendanceService.CheckIn(r.Context(), req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, attendance.ErrAlreadyCheckedIn.Error())
		return
	}

	response.Created(w, "Checked in", nil)
}

func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !middleware.CanActFor(r, req.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return
	}

	ok, err := h.attendanceService.CheckOut(r.Context(), req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, "No open check-in for today")
		return
	}

	response.SuccessWithMessage(w, "Checked out", nil)
}

func (h *attendanceHandlerImpl) AddManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	ok, err := h.attendanceService.AddManual(r.Context(), req, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, "Attendance already recorded for this date")
		return
	}

	response.Created(w, "Attendance recorded", nil)
}

// ========== QUERIES ==========

func (h *attendanceHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	date, err := getDateQueryParam(r, "date")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toAttendanceResponses(records))
}

func (h *attendanceHandlerImpl) ListByRange(w http.ResponseWriter, r *http.Request) {
	from, err := getDateQueryParam(r, "from")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	to, err := getDateQueryParam(r, "to")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByRange(r.Context(), attendance.RangeFilter{
		EmployeeID: chi.URLParam(r, "employeeID"),
		From:       from,
		To:         to,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toAttendanceResponses(records))
}

func (h *attendanceHandlerImpl) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, yearErr := strconv.Atoi(chi.URLParam(r, "year"))
	month, monthErr := strconv.Atoi(chi.URLParam(r, "month"))
	if yearErr != nil || monthErr != nil {
		response.HandleError(w, validator.ValidationErrors{{Field: "period", Message: "invalid year/month"}})
		return
	}

	stats, err := h.attendanceService.MonthlyStats(r.Context(), chi.URLParam(r, "employeeID"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewMonthlyStatsResponse(stats))
}

func toAttendanceResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	result := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		result = append(result, attendance.NewAttendanceResponse(a))
	}
	return result
}

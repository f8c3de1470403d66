package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Periods
	GeneratePeriod(w http.ResponseWriter, r *http.Request)
	ListPeriod(w http.ResponseWriter, r *http.Request)
	GetPeriodSummary(w http.ResponseWriter, r *http.Request)

	// Records
	GetRecord(w http.ResponseWriter, r *http.Request)
	Compute(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// periodFromURL reads {year} and {month} from the route.
func periodFromURL(r *http.Request) (payroll.Period, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	period := payroll.Period{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return payroll.Period{}, err
	}
	return period, nil
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) GeneratePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.payrollService.GenerateForPeriod(r.Context(), period, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", payroll.GenerateResponse{
		PeriodYear:   period.Year,
		PeriodMonth:  period.Month,
		CreatedCount: created,
	})
}

func (h *payrollHandlerImpl) ListPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.ListByPeriod(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, payroll.NewRecordResponse(rec))
	}
	response.SuccessWithMeta(w, result, &response.Meta{
		Count:       len(result),
		PeriodYear:  period.Year,
		PeriodMonth: period.Month,
	})
}

func (h *payrollHandlerImpl) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.payrollService.Summary(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewSummaryResponse(summary))
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !middleware.CanActFor(r, record.EmployeeID) {
		response.Forbidden(w, forbiddenOtherEmployee)
		return
	}

	response.Success(w, payroll.NewRecordResponse(record))
}

func (h *payrollHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll computed", "Payroll record is not in draft",
		func(id, actorID string) (bool, error) { return h.payrollService.Compute(r.Context(), id, actorID) })
}

func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll approved", "Payroll record is not in draft",
		func(id, actorID string) (bool, error) { return h.payrollService.Approve(r.Context(), id, actorID) })
}

func (h *payrollHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll paid", "Payroll record is not approved",
		func(id, actorID string) (bool, error) { return h.payrollService.Pay(r.Context(), id, actorID) })
}

func (h *payrollHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll cancelled", "Payroll record can no longer be cancelled",
		func(id, actorID string) (bool, error) { return h.payrollService.Cancel(r.Context(), id, actorID) })
}

// transition runs a conditional status change and answers with the updated record.
func (h *payrollHandlerImpl) transition(w http.ResponseWriter, r *http.Request, okMessage, conflictMessage string, apply func(id, actorID string) (bool, error)) {
	id := chi.URLParam(r, "id")

	ok, err := apply(id, middleware.ActorFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.Conflict(w, conflictMessage)
		return
	}

	record, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, okMessage, payroll.NewRecordResponse(record))
}

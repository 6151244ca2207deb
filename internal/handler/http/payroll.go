package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	"github.com/chronohr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	calculatorService payroll.CalculatorService
}

func NewPayrollHandler(calculatorService payroll.CalculatorService) PayrollHandler {
	return &payrollHandlerImpl{
		calculatorService: calculatorService,
	}
}

// Calculate implements PayrollHandler.
func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.calculatorService.Calculate(r.Context(), req, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll calculated", result)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.calculatorService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRecords implements PayrollHandler.
func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	result, err := h.calculatorService.ListRecords(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements PayrollHandler.
func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.calculatorService.Approve(r.Context(), chi.URLParam(r, "id"), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", result)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PeriodHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ValidateFinalization(w http.ResponseWriter, r *http.Request)
	Finalize(w http.ResponseWriter, r *http.Request)
	Unlock(w http.ResponseWriter, r *http.Request)
	RecordEditability(w http.ResponseWriter, r *http.Request)
}

type periodHandlerImpl struct {
	lifecycleService period.LifecycleService
}

func NewPeriodHandler(lifecycleService period.LifecycleService) PeriodHandler {
	return &periodHandlerImpl{
		lifecycleService: lifecycleService,
	}
}

// Create implements PeriodHandler.
func (h *periodHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req period.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.lifecycleService.CreatePeriod(r.Context(), req, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Period created", result)
}

// List implements PeriodHandler.
func (h *periodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycleService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements PeriodHandler.
func (h *periodHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycleService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ValidateFinalization implements PeriodHandler.
func (h *periodHandlerImpl) ValidateFinalization(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	result, err := h.lifecycleService.ValidatePeriodForFinalization(r.Context(), startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Finalize implements PeriodHandler.
func (h *periodHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycleService.FinalizePeriod(r.Context(), chi.URLParam(r, "id"), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Success {
		response.ConflictWithData(w, "Period cannot be finalized", result)
		return
	}

	response.SuccessWithMessage(w, "Period finalized", result)
}

// Unlock implements PeriodHandler.
func (h *periodHandlerImpl) Unlock(w http.ResponseWriter, r *http.Request) {
	var req period.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.lifecycleService.UnlockPeriod(r.Context(), chi.URLParam(r, "id"), getUserIDFromContext(r), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Period unlocked", result)
}

// RecordEditability implements PeriodHandler.
func (h *periodHandlerImpl) RecordEditability(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycleService.ValidateRecordEditability(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/report"
	"github.com/chronohr/attendance-backend-go/internal/handler/http/response"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	DepartmentHours(w http.ResponseWriter, r *http.Request)
	RecentFetches(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportRepo report.ReportRepository
}

func NewReportHandler(reportRepo report.ReportRepository) ReportHandler {
	return &reportHandlerImpl{
		reportRepo: reportRepo,
	}
}

// MonthlySummary implements ReportHandler.
func (h *reportHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		response.BadRequest(w, "Query parameter 'year' must be a valid year", nil)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(w, "Query parameter 'month' must be 1-12", nil)
		return
	}

	result, err := h.reportRepo.MonthlySummary(r.Context(), year, time.Month(month))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DepartmentHours implements ReportHandler.
func (h *reportHandlerImpl) DepartmentHours(w http.ResponseWriter, r *http.Request) {
	start, valid := validator.IsValidDate(r.URL.Query().Get("start_date"))
	if !valid {
		response.BadRequest(w, "Query parameter 'start_date' must be a YYYY-MM-DD date", nil)
		return
	}

	end, valid := validator.IsValidDate(r.URL.Query().Get("end_date"))
	if !valid {
		response.BadRequest(w, "Query parameter 'end_date' must be a YYYY-MM-DD date", nil)
		return
	}

	result, err := h.reportRepo.DepartmentHours(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecentFetches implements ReportHandler.
func (h *reportHandlerImpl) RecentFetches(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	result, err := h.reportRepo.RecentFetches(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

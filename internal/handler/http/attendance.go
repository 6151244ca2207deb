package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/handler/http/response"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	CreateBatch(w http.ResponseWriter, r *http.Request)
	Fetch(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Purge(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	ingestionService attendance.IngestionService
}

func NewAttendanceHandler(ingestionService attendance.IngestionService) AttendanceHandler {
	return &attendanceHandlerImpl{
		ingestionService: ingestionService,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRecordInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ingestionService.CreateRecord(r.Context(), req, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance record created", result)
}

// CreateBatch implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []attendance.CreateRecordInput `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.Records) == 0 {
		response.BadRequest(w, "Field 'records' must not be empty", nil)
		return
	}

	result, err := h.ingestionService.CreateRecordsBatch(r.Context(), req.Records, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch processed", result)
}

// Fetch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Fetch(w http.ResponseWriter, r *http.Request) {
	var req attendance.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ingestionService.FetchFromTerminal(r.Context(), req, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Terminal fetch completed", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{}

	if v := r.URL.Query().Get("staff_id"); v != "" {
		filter.StaffID = &v
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := r.URL.Query().Get("period_id"); v != "" {
		filter.PeriodID = &v
	}
	if v := r.URL.Query().Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	result, err := h.ingestionService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(result.TotalCount) / result.Limit
	if int(result.TotalCount)%result.Limit > 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.ingestionService.UpdateRecord(r.Context(), req, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", result)
}

// Purge implements AttendanceHandler.
func (h *attendanceHandlerImpl) Purge(w http.ResponseWriter, r *http.Request) {
	before := r.URL.Query().Get("before")
	cutoff, valid := validator.IsValidDate(before)
	if !valid {
		response.BadRequest(w, "Query parameter 'before' must be a YYYY-MM-DD date", nil)
		return
	}

	purged, err := h.ingestionService.PurgeOlderThan(r.Context(), cutoff, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Retention purge completed", map[string]interface{}{
		"purged_count": purged,
		"cutoff":       cutoff.Format("2006-01-02"),
	})
}

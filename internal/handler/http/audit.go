package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/audit"
	"github.com/chronohr/attendance-backend-go/internal/handler/http/response"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	trailRepo audit.TrailRepository
}

func NewAuditHandler(trailRepo audit.TrailRepository) AuditHandler {
	return &auditHandlerImpl{
		trailRepo: trailRepo,
	}
}

type auditEntryResponse struct {
	ID            string  `json:"id"`
	Action        string  `json:"action"`
	ActorID       string  `json:"actor_id"`
	Entity        string  `json:"entity"`
	EntityID      string  `json:"entity_id"`
	BeforeStatus  *string `json:"before_status,omitempty"`
	AfterStatus   *string `json:"after_status,omitempty"`
	AffectedCount int     `json:"affected_count"`
	Reason        *string `json:"reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{}

	if v := r.URL.Query().Get("entity"); v != "" {
		filter.Entity = &v
	}
	if v := r.URL.Query().Get("action"); v != "" {
		filter.Action = &v
	}
	if v := r.URL.Query().Get("from"); v != "" {
		from, valid := validator.IsValidDate(v)
		if !valid {
			response.BadRequest(w, "Query parameter 'from' must be a YYYY-MM-DD date", nil)
			return
		}
		filter.From = &from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, valid := validator.IsValidDate(v)
		if !valid {
			response.BadRequest(w, "Query parameter 'to' must be a YYYY-MM-DD date", nil)
			return
		}
		// Inclusive upper bound for a date-only parameter.
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	entries, err := h.trailRepo.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, auditEntryResponse{
			ID:            e.ID,
			Action:        e.Action,
			ActorID:       e.ActorID,
			Entity:        e.Entity,
			EntityID:      e.EntityID,
			BeforeStatus:  e.BeforeStatus,
			AfterStatus:   e.AfterStatus,
			AffectedCount: e.AffectedCount,
			Reason:        e.Reason,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}

	response.Success(w, result)
}

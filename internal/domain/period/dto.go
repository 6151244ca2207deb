package period

import (
	"time"

	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
)

type CreatePeriodRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startValid := time.Time{}, false
	end, endValid := time.Time{}, false

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if start, startValid = validator.IsValidDate(r.StartDate); !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if end, endValid = validator.IsValidDate(r.EndDate); !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PeriodResponse struct {
	ID           string  `json:"id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Status       string  `json:"status"`
	FinalizedBy  *string `json:"finalized_by,omitempty"`
	FinalizedAt  *string `json:"finalized_at,omitempty"`
	UnlockReason *string `json:"unlock_reason,omitempty"`
	CreatedBy    string  `json:"created_by"`
	CreatedAt    string  `json:"created_at"`
}

// Editability is the answer to "may this record be edited right now".
type Editability struct {
	CanEdit bool   `json:"can_edit"`
	Reason  string `json:"reason,omitempty"`
}

// Editability refusal reasons. Callers branch on these, so they are fixed
// strings rather than free-form text.
const (
	ReasonRecordNotFound  = "record not found"
	ReasonFinalizedPeriod = "record is in finalized period"
	ReasonLockedPeriod    = "record is in locked period"
)

// Finalization issue types, one per independent pre-finalize check.
const (
	IssueUnresolvedConflicts = "UNRESOLVED_CONFLICTS"
	IssuePendingApprovals    = "PENDING_APPROVALS"
	IssueMissingData         = "MISSING_DATA"
)

type FinalizationIssue struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// FinalizationCheck reports every nonzero issue, not just the first.
type FinalizationCheck struct {
	CanFinalize bool                `json:"can_finalize"`
	Issues      []FinalizationIssue `json:"issues"`
}

// TransitionResult is the uniform outcome of finalize and unlock. Errors is a
// structured list so callers can render every problem at once.
type TransitionResult struct {
	Success             bool            `json:"success"`
	Period              *PeriodResponse `json:"period,omitempty"`
	AffectedRecordCount int             `json:"affected_record_count,omitempty"`
	Errors              []string        `json:"errors,omitempty"`
}

type UnlockRequest struct {
	Reason string `json:"reason"`
}

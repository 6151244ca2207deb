package attendance

import (
	"time"

	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// INGESTION DTOs
// ========================================

type CreateRecordInput struct {
	DeviceEmployeeID string  `json:"device_employee_id"`
	Date             string  `json:"date"`                // YYYY-MM-DD
	ClockIn          *string `json:"clock_in,omitempty"`  // RFC3339
	ClockOut         *string `json:"clock_out,omitempty"` // RFC3339
	TransactionID    string  `json:"transaction_id"`
}

func (r *CreateRecordInput) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceEmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_employee_id",
			Message: "device_employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.TransactionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "transaction_id",
			Message: "transaction_id is required",
		})
	}

	if r.ClockIn != nil && *r.ClockIn != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOut != nil && *r.ClockOut != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID               string  `json:"id"`
	StaffID          string  `json:"staff_id"`
	StaffName        *string `json:"staff_name,omitempty"`
	DeviceEmployeeID string  `json:"device_employee_id"`
	Date             string  `json:"date"`
	ClockIn          *string `json:"clock_in,omitempty"`
	ClockOut         *string `json:"clock_out,omitempty"`
	TotalHours       *string `json:"total_hours,omitempty"`
	TransactionID    string  `json:"transaction_id"`
	PeriodID         *string `json:"period_id,omitempty"`
	Finalized        bool    `json:"finalized"`
	HasConflict      bool    `json:"has_conflict"`
	ApprovalPending  bool    `json:"approval_pending"`
	FetchedAt        string  `json:"fetched_at"`
	FetchedByID      string  `json:"fetched_by_id"`
}

// IngestError reports one failed batch element together with enough context
// to find the offending terminal row.
type IngestError struct {
	Type          string  `json:"type"`
	Message       string  `json:"message"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// BatchResult is the outcome of a batch ingest: every input is attempted
// independently, so both lists can be non-empty.
type BatchResult struct {
	Created []RecordResponse `json:"created"`
	Errors  []IngestError    `json:"errors"`
}

// ========================================
// TERMINAL FETCH DTOs
// ========================================

type FetchRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *FetchRequest) Validate() error {
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

type FetchSummary struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	FetchedAt   string `json:"fetched_at"`
	FetchedByID string `json:"fetched_by_id"`
}

// FetchResult is returned to the caller of a terminal fetch. Counters are
// broken out so the UI can show "already imported" separately from rows that
// need employee setup.
type FetchResult struct {
	FetchID               string           `json:"fetch_id"`
	TotalRecordsProcessed int              `json:"total_records_processed"`
	RecordsCreated        int              `json:"records_created"`
	RecordsSkipped        int              `json:"records_skipped"`
	RecordsWithErrors     int              `json:"records_with_errors"`
	EmployeeMappingErrors int              `json:"employee_mapping_errors"`
	ValidationErrors      int              `json:"validation_errors"`
	Records               []RecordResponse `json:"records"`
	Errors                []IngestError    `json:"errors"`
	Summary               FetchSummary     `json:"summary"`
}

// ========================================
// QUERY / EDIT DTOs
// ========================================

type RecordFilter struct {
	StaffID   *string `json:"staff_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	PeriodID  *string `json:"period_id,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}

// UpdateRecordRequest lets an operator correct a record while its period is
// still editable.
type UpdateRecordRequest struct {
	ID              string  `json:"-"`
	ClockIn         *string `json:"clock_in,omitempty"`  // RFC3339
	ClockOut        *string `json:"clock_out,omitempty"` // RFC3339
	HasConflict     *bool   `json:"has_conflict,omitempty"`
	ApprovalPending *bool   `json:"approval_pending,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClockIn != nil && *r.ClockIn != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOut != nil && *r.ClockOut != "" {
		if _, valid := validator.IsValidDateTime(*r.ClockOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

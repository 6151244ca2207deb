package response

import (
	"errors"
	"net/http"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/domain/staff"
	"github.com/chronohr/attendance-backend-go/internal/domain/user"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Access errors
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Administrator access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrStaffInactive):
		Conflict(w, "Staff member is not active")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this transaction")
	case errors.Is(err, attendance.ErrRecordFinalized):
		Conflict(w, "Record is in a finalized period and cannot be edited")
	case errors.Is(err, attendance.ErrRecordLocked):
		Conflict(w, "Record is in a locked period and cannot be edited")

	// Period domain errors
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Period not found")
	case errors.Is(err, period.ErrPeriodOverlap):
		Conflict(w, "Period date range overlaps an existing period")
	case errors.Is(err, period.ErrPeriodNotPending):
		Conflict(w, "Period is not in pending status")
	case errors.Is(err, period.ErrPeriodNotFinalized):
		Conflict(w, "Only finalized periods can be unlocked")
	case errors.Is(err, period.ErrUnlockReasonMissing):
		BadRequest(w, "Unlock reason is required", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodNotEligible):
		Conflict(w, "Payroll requires a finalized or locked attendance period")
	case errors.Is(err, payroll.ErrPayrollNotCalculated):
		Conflict(w, "Payroll period has not been calculated")
	case errors.Is(err, payroll.ErrPayrollAlreadyApproved):
		Conflict(w, "Payroll period is already approved")
	case errors.Is(err, payroll.ErrPayrollExists):
		Conflict(w, "Payroll already calculated for this attendance period")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

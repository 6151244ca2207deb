package payroll

import (
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// StaffRates are the hourly rates applied to one staff member for a run.
type StaffRates struct {
	StandardRate decimal.Decimal `json:"standard_rate"`
	OvertimeRate decimal.Decimal `json:"overtime_rate"`
}

// RateConfig is supplied per calculation run; nothing is hardcoded. Staff
// without an entry fall back to Default, then to the rates on their staff
// row; staff with none of the three are reported as per-employee failures.
type RateConfig struct {
	DailyOvertimeThreshold  decimal.Decimal       `json:"daily_overtime_threshold"`
	WeeklyOvertimeThreshold decimal.Decimal       `json:"weekly_overtime_threshold"`
	Rates                   map[string]StaffRates `json:"rates,omitempty"`
	Default                 *StaffRates           `json:"default,omitempty"`
}

// ThresholdDefaults fill in a calculation request whose config omits the
// overtime thresholds. They come from application configuration.
type ThresholdDefaults struct {
	DailyOvertimeThreshold  decimal.Decimal
	WeeklyOvertimeThreshold decimal.Decimal
}

type CalculateRequest struct {
	AttendancePeriodID string     `json:"attendance_period_id"`
	Config             RateConfig `json:"config"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendancePeriodID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_period_id",
			Message: "attendance_period_id is required",
		})
	}

	if r.Config.DailyOvertimeThreshold.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "config.daily_overtime_threshold",
			Message: "daily_overtime_threshold must be positive",
		})
	}

	if r.Config.WeeklyOvertimeThreshold.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "config.weekly_overtime_threshold",
			Message: "weekly_overtime_threshold must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollRecordResponse struct {
	ID              string          `json:"id"`
	PayrollPeriodID string          `json:"payroll_period_id"`
	StaffID         string          `json:"staff_id"`
	StaffName       *string         `json:"staff_name,omitempty"`
	StandardHours   decimal.Decimal `json:"standard_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	StandardRate    decimal.Decimal `json:"standard_rate"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	CalculationData CalculationData `json:"calculation_data"`
}

// EmployeeError is a per-employee calculation failure; it never aborts the
// run for other employees.
type EmployeeError struct {
	StaffID string `json:"staff_id"`
	Message string `json:"message"`
}

type PayrollPeriodResponse struct {
	ID                 string  `json:"id"`
	AttendancePeriodID string  `json:"attendance_period_id"`
	Status             string  `json:"status"`
	CalculatedBy       *string `json:"calculated_by,omitempty"`
	CalculatedAt       *string `json:"calculated_at,omitempty"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
}

type CalculateResult struct {
	Period  PayrollPeriodResponse   `json:"period"`
	Records []PayrollRecordResponse `json:"records"`
	Errors  []EmployeeError         `json:"errors,omitempty"`
}

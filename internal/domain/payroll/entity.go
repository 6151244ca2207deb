package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	StatusPending     PayrollStatus = "PENDING"
	StatusCalculating PayrollStatus = "CALCULATING"
	StatusCalculated  PayrollStatus = "CALCULATED"
	// StatusApproved is set by the external approval collaborator; approving
	// also locks the source attendance period.
	StatusApproved PayrollStatus = "APPROVED"
)

// PayrollPeriod is the derived artifact of one attendance period. At most one
// exists per attendance period: recalculation supersedes an unapproved run
// and is refused outright once the run is APPROVED.
type PayrollPeriod struct {
	ID                 string
	AttendancePeriodID string
	Status             PayrollStatus
	CalculatedBy       *string
	CalculatedAt       *time.Time
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DayBreakdown is the per-day split retained for audit/replay.
type DayBreakdown struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	TotalHours    decimal.Decimal `json:"total_hours"`
	StandardHours decimal.Decimal `json:"standard_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

// CalculationData captures the full input set behind a payroll record so the
// numbers can be audited or replayed later.
type CalculationData struct {
	RecordIDs       []string        `json:"record_ids"`
	DailyBreakdown  []DayBreakdown  `json:"daily_breakdown"`
	DailyThreshold  decimal.Decimal `json:"daily_threshold"`
	WeeklyThreshold decimal.Decimal `json:"weekly_threshold"`
}

// PayrollRecord is one employee's pay for one payroll period.
// gross = standardHours*standardRate + overtimeHours*overtimeRate; never
// recomputed silently once the period is APPROVED.
type PayrollRecord struct {
	ID              string
	PayrollPeriodID string
	StaffID         string
	StandardHours   decimal.Decimal
	OvertimeHours   decimal.Decimal
	StandardRate    decimal.Decimal
	OvertimeRate    decimal.Decimal
	GrossPay        decimal.Decimal
	CalculationData CalculationData
	CreatedAt       time.Time

	// Joined fields
	StaffName *string
}

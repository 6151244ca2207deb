package report

import "github.com/shopspring/decimal"

// MonthlySummaryRow aggregates one staff member's attendance for a month.
type MonthlySummaryRow struct {
	StaffID      string          `json:"staff_id"`
	StaffName    string          `json:"staff_name"`
	DaysPresent  int             `json:"days_present"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	DaysMissing  int             `json:"days_missing_clock_data"`
	HasConflicts bool            `json:"has_conflicts"`
}

// DepartmentHoursRow aggregates worked hours per department in a range.
type DepartmentHoursRow struct {
	Department  string          `json:"department"`
	StaffCount  int             `json:"staff_count"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	RecordCount int             `json:"record_count"`
}

// FetchActivityRow summarizes one recent terminal fetch batch.
type FetchActivityRow struct {
	FetchedAt   string `json:"fetched_at"`
	FetchedByID string `json:"fetched_by_id"`
	RecordCount int    `json:"record_count"`
}

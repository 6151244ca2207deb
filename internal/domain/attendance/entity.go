package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one biometric observation for one staff member on one day.
// Uniqueness is enforced on (staff_id, date, transaction_id) so re-ingesting
// the same terminal log can never create a duplicate.
type Record struct {
	ID               string
	StaffID          string
	DeviceEmployeeID string
	Date             time.Time
	ClockIn          *time.Time
	ClockOut         *time.Time
	TotalHours       *decimal.Decimal
	TransactionID    string
	PeriodID         *string
	Finalized        bool
	HasConflict      bool
	ApprovalPending  bool
	FetchedAt        time.Time
	FetchedByID      string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	StaffName *string
}

// ComputeTotalHours derives worked hours from the clock times. Returns nil
// when either timestamp is absent; a clock-out before clock-in yields zero.
func ComputeTotalHours(clockIn, clockOut *time.Time) *decimal.Decimal {
	if clockIn == nil || clockOut == nil {
		return nil
	}
	hours := clockOut.Sub(*clockIn).Hours()
	if hours < 0 {
		hours = 0
	}
	d := decimal.NewFromFloat(hours).Round(2)
	return &d
}

package period

import "time"

type Status string

const (
	// StatusPending: records in range are editable.
	StatusPending Status = "PENDING"
	// StatusFinalized: records are locked for edits, payroll not yet run.
	StatusFinalized Status = "FINALIZED"
	// StatusLocked: payroll has consumed the period. Set by the payroll
	// collaborator, never by the lifecycle service itself.
	StatusLocked Status = "LOCKED"
)

// Period is an accounting window grouping attendance records. Start and end
// dates are inclusive and ranges of two periods never overlap.
type Period struct {
	ID           string
	StartDate    time.Time
	EndDate      time.Time
	Status       Status
	FinalizedBy  *string
	FinalizedAt  *time.Time
	UnlockReason *string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

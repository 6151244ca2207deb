package audit

import "time"

// Lifecycle actions recorded in the trail.
const (
	ActionPeriodCreated     = "PERIOD_CREATED"
	ActionPeriodFinalized   = "PERIOD_FINALIZED"
	ActionPeriodUnlocked    = "PERIOD_UNLOCKED"
	ActionPeriodLocked      = "PERIOD_LOCKED"
	ActionPayrollCalculated = "PAYROLL_CALCULATED"
	ActionPayrollApproved   = "PAYROLL_APPROVED"
	ActionRecordsPurged     = "RECORDS_PURGED"
)

// Entry is one immutable audit row. Entries are only ever inserted.
type Entry struct {
	ID            string
	Action        string
	ActorID       string
	Entity        string
	EntityID      string
	BeforeStatus  *string
	AfterStatus   *string
	AffectedCount int
	Reason        *string
	CreatedAt     time.Time
}

type Filter struct {
	Entity *string
	Action *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

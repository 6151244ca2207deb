package period

import "context"

// LifecycleService owns the period state machine:
// PENDING -> FINALIZED (finalize), FINALIZED -> PENDING (unlock).
// The FINALIZED/LOCKED transition belongs to the payroll collaborator.
type LifecycleService interface {
	// CreatePeriod inserts a new PENDING period, rejecting overlapping
	// ranges, and atomically claims unassociated in-range records.
	CreatePeriod(ctx context.Context, req CreatePeriodRequest, operatorID string) (PeriodResponse, error)

	GetPeriod(ctx context.Context, id string) (PeriodResponse, error)

	ListPeriods(ctx context.Context) ([]PeriodResponse, error)

	// ValidateRecordEditability answers whether an attendance record may be
	// edited given its owning period's status.
	ValidateRecordEditability(ctx context.Context, recordID string) (Editability, error)

	// ValidatePeriodForFinalization runs the three independent issue counts
	// over records in range and reports every nonzero one.
	ValidatePeriodForFinalization(ctx context.Context, startDate, endDate string) (FinalizationCheck, error)

	// FinalizePeriod transitions PENDING -> FINALIZED, bulk-marking in-range
	// records finalized. All writes happen in one transaction.
	FinalizePeriod(ctx context.Context, periodID, operatorID string) (TransitionResult, error)

	// UnlockPeriod transitions FINALIZED -> PENDING. Requires a non-empty
	// reason; the reason is stored on the period and in the audit trail.
	UnlockPeriod(ctx context.Context, periodID, operatorID, reason string) (TransitionResult, error)
}

package period

import (
	"context"
	"time"
)

type PeriodRepository interface {
	Create(ctx context.Context, p Period) (Period, error)

	GetByID(ctx context.Context, id string) (Period, error)

	// GetByIDForUpdate re-reads the period inside the current transaction
	// with a row lock, so concurrent lifecycle transitions on the same
	// period serialize on the status check.
	GetByIDForUpdate(ctx context.Context, id string) (Period, error)

	// GetByRecordID returns the period owning an attendance record, or
	// ErrPeriodNotFound when the record is unassociated.
	GetByRecordID(ctx context.Context, recordID string) (Period, error)

	List(ctx context.Context) ([]Period, error)

	// RangeOverlaps reports whether any existing period intersects
	// [start, end].
	RangeOverlaps(ctx context.Context, start, end time.Time) (bool, error)

	// UpdateStatus sets the period status together with the finalized-by /
	// finalized-at / unlock-reason bookkeeping for the transition.
	UpdateStatus(ctx context.Context, p Period) (Period, error)
}

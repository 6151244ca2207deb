package attendance

import (
	"context"
	"time"
)

// IssueCounts are the three independent checks run before a period may be
// finalized. Every nonzero count becomes a distinct issue for the caller.
type IssueCounts struct {
	UnresolvedConflicts int
	PendingApprovals    int
	MissingData         int
}

type RecordRepository interface {
	// Create inserts a record. Returns ErrDuplicateRecord when the
	// (staff_id, date, transaction_id) key already exists.
	Create(ctx context.Context, record Record) (Record, error)

	// Exists probes the natural key without attempting an insert.
	Exists(ctx context.Context, staffID string, date time.Time, transactionID string) (bool, error)

	GetByID(ctx context.Context, id string) (Record, error)

	// Update rewrites the mutable fields (clock times, derived hours,
	// conflict and approval flags) of an existing record.
	Update(ctx context.Context, record Record) error

	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	ListByPeriodID(ctx context.Context, periodID string) ([]Record, error)

	// AssociateRangeToPeriod claims every unassociated record whose date
	// falls in [start, end] for the given period. Returns the number of
	// records claimed.
	AssociateRangeToPeriod(ctx context.Context, periodID string, start, end time.Time) (int64, error)

	// SetFinalizedByPeriod bulk-sets the finalized flag on every record
	// owned by the period. Returns the number of records touched.
	SetFinalizedByPeriod(ctx context.Context, periodID string, finalized bool) (int64, error)

	// CountIssuesInRange runs the three finalization checks over records in
	// [start, end].
	CountIssuesInRange(ctx context.Context, start, end time.Time) (IssueCounts, error)

	// PurgeOlderThan deletes records dated before the cutoff that either
	// belong to no period or belong to a period ending before the cutoff.
	// This is the only path that physically deletes attendance data.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

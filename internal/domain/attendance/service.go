package attendance

import (
	"context"
	"time"
)

// IngestionService turns raw terminal punch logs into attendance records.
type IngestionService interface {
	// CreateRecord validates and inserts a single record.
	CreateRecord(ctx context.Context, input CreateRecordInput, operatorID string) (RecordResponse, error)

	// CreateRecordsBatch processes inputs in fixed-size chunks; each input
	// is attempted independently and failures are reported alongside
	// successes.
	CreateRecordsBatch(ctx context.Context, inputs []CreateRecordInput, operatorID string) (BatchResult, error)

	// RecordExists probes the (staff, date, transaction) natural key.
	RecordExists(ctx context.Context, staffID string, date time.Time, transactionID string) (bool, error)

	// FetchFromTerminal polls the device for the requested window, groups
	// punches into per-day records, and ingests them idempotently.
	FetchFromTerminal(ctx context.Context, req FetchRequest, operatorID string) (FetchResult, error)

	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// UpdateRecord edits a record, refusing when its owning period is
	// finalized or locked.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest, operatorID string) (RecordResponse, error)

	// PurgeOlderThan is the retention operation; it deletes records dated
	// before the cutoff that no live period still owns.
	PurgeOlderThan(ctx context.Context, cutoff time.Time, operatorID string) (int64, error)
}

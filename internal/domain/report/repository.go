package report

import (
	"context"
	"time"
)

// ReportRepository is the read model over attendance data: parameterized
// aggregation queries rather than SQL inlined in handlers, so the storage
// engine stays swappable.
type ReportRepository interface {
	MonthlySummary(ctx context.Context, year int, month time.Month) ([]MonthlySummaryRow, error)
	DepartmentHours(ctx context.Context, start, end time.Time) ([]DepartmentHoursRow, error)
	RecentFetches(ctx context.Context, limit int) ([]FetchActivityRow, error)
}

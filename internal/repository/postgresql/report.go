package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/report"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

// MonthlySummary implements report.ReportRepository.
func (r *reportRepository) MonthlySummary(ctx context.Context, year int, month time.Month) ([]report.MonthlySummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT s.id,
			   s.full_name,
			   COUNT(*) FILTER (WHERE r.clock_in IS NOT NULL OR r.clock_out IS NOT NULL),
			   COALESCE(SUM(r.total_hours), 0),
			   COUNT(*) FILTER (WHERE r.clock_in IS NULL AND r.clock_out IS NULL),
			   BOOL_OR(r.has_conflict)
		FROM attendance_records r
		JOIN staff s ON s.id = r.staff_id
		WHERE r.date >= $1 AND r.date < $2
		GROUP BY s.id, s.full_name
		ORDER BY s.full_name
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer rows.Close()

	var result []report.MonthlySummaryRow
	for rows.Next() {
		var row report.MonthlySummaryRow
		err := rows.Scan(
			&row.StaffID, &row.StaffName, &row.DaysPresent,
			&row.TotalHours, &row.DaysMissing, &row.HasConflicts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly summary row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly summary rows: %w", err)
	}

	return result, nil
}

// DepartmentHours implements report.ReportRepository. Staff without a
// department are grouped under "unassigned".
func (r *reportRepository) DepartmentHours(ctx context.Context, start, end time.Time) ([]report.DepartmentHoursRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(s.department, 'unassigned'),
			   COUNT(DISTINCT s.id),
			   COALESCE(SUM(r.total_hours), 0),
			   COUNT(*)
		FROM attendance_records r
		JOIN staff s ON s.id = r.staff_id
		WHERE r.date >= $1 AND r.date <= $2
		GROUP BY COALESCE(s.department, 'unassigned')
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query department hours: %w", err)
	}
	defer rows.Close()

	var result []report.DepartmentHoursRow
	for rows.Next() {
		var row report.DepartmentHoursRow
		err := rows.Scan(&row.Department, &row.StaffCount, &row.TotalHours, &row.RecordCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department hours row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department hours rows: %w", err)
	}

	return result, nil
}

// RecentFetches implements report.ReportRepository.
func (r *reportRepository) RecentFetches(ctx context.Context, limit int) ([]report.FetchActivityRow, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT TO_CHAR(fetched_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
			   fetched_by_id,
			   COUNT(*)
		FROM attendance_records
		GROUP BY fetched_at, fetched_by_id
		ORDER BY fetched_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent fetches: %w", err)
	}
	defer rows.Close()

	var result []report.FetchActivityRow
	for rows.Next() {
		var row report.FetchActivityRow
		if err := rows.Scan(&row.FetchedAt, &row.FetchedByID, &row.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan fetch activity row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch activity rows: %w", err)
	}

	return result, nil
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

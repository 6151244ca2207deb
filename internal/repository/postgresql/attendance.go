package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

const uniqueViolationCode = "23505"

// Create implements attendance.RecordRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			staff_id, device_employee_id, date, clock_in, clock_out, total_hours,
			transaction_id, period_id, finalized, has_conflict, approval_pending,
			fetched_at, fetched_by_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.StaffID,
		record.DeviceEmployeeID,
		record.Date,
		record.ClockIn,
		record.ClockOut,
		record.TotalHours,
		record.TransactionID,
		record.PeriodID,
		record.Finalized,
		record.HasConflict,
		record.ApprovalPending,
		record.FetchedAt,
		record.FetchedByID,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// Exists implements attendance.RecordRepository.
func (a *attendanceRepository) Exists(ctx context.Context, staffID string, date time.Time, transactionID string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_records
			WHERE staff_id = $1
			  AND date = $2
			  AND transaction_id = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, staffID, date, transactionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance record existence: %w", err)
	}

	return exists, nil
}

// GetByID implements attendance.RecordRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT r.id, r.staff_id, r.device_employee_id, r.date, r.clock_in, r.clock_out,
			   r.total_hours, r.transaction_id, r.period_id, r.finalized,
			   r.has_conflict, r.approval_pending, r.fetched_at, r.fetched_by_id,
			   r.created_at, r.updated_at,
			   s.full_name AS staff_name
		FROM attendance_records r
		LEFT JOIN staff s ON s.id = r.staff_id
		WHERE r.id = $1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.StaffID, &rec.DeviceEmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
		&rec.TotalHours, &rec.TransactionID, &rec.PeriodID, &rec.Finalized,
		&rec.HasConflict, &rec.ApprovalPending, &rec.FetchedAt, &rec.FetchedByID,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.StaffName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET clock_in = $1,
			clock_out = $2,
			total_hours = $3,
			has_conflict = $4,
			approval_pending = $5,
			updated_at = $6
		WHERE id = $7
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.ClockIn,
		record.ClockOut,
		record.TotalHours,
		record.HasConflict,
		record.ApprovalPending,
		time.Now(),
		record.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// List implements attendance.RecordRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.StaffID != nil && *filter.StaffID != "" {
		baseWhere += fmt.Sprintf(" AND r.staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.PeriodID != nil && *filter.PeriodID != "" {
		baseWhere += fmt.Sprintf(" AND r.period_id = $%d", argIdx)
		args = append(args, *filter.PeriodID)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records r WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT r.id, r.staff_id, r.device_employee_id, r.date, r.clock_in, r.clock_out,
			   r.total_hours, r.transaction_id, r.period_id, r.finalized,
			   r.has_conflict, r.approval_pending, r.fetched_at, r.fetched_by_id,
			   r.created_at, r.updated_at,
			   s.full_name AS staff_name
		FROM attendance_records r
		LEFT JOIN staff s ON s.id = r.staff_id
		WHERE %s
		ORDER BY r.date DESC, s.full_name ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.StaffID, &rec.DeviceEmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
			&rec.TotalHours, &rec.TransactionID, &rec.PeriodID, &rec.Finalized,
			&rec.HasConflict, &rec.ApprovalPending, &rec.FetchedAt, &rec.FetchedByID,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.StaffName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// ListByPeriodID implements attendance.RecordRepository.
func (a *attendanceRepository) ListByPeriodID(ctx context.Context, periodID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT r.id, r.staff_id, r.device_employee_id, r.date, r.clock_in, r.clock_out,
			   r.total_hours, r.transaction_id, r.period_id, r.finalized,
			   r.has_conflict, r.approval_pending, r.fetched_at, r.fetched_by_id,
			   r.created_at, r.updated_at,
			   s.full_name AS staff_name
		FROM attendance_records r
		LEFT JOIN staff s ON s.id = r.staff_id
		WHERE r.period_id = $1
		ORDER BY r.staff_id, r.date
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query period attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.StaffID, &rec.DeviceEmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
			&rec.TotalHours, &rec.TransactionID, &rec.PeriodID, &rec.Finalized,
			&rec.HasConflict, &rec.ApprovalPending, &rec.FetchedAt, &rec.FetchedByID,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.StaffName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate period attendance records: %w", err)
	}

	return records, nil
}

// AssociateRangeToPeriod implements attendance.RecordRepository.
func (a *attendanceRepository) AssociateRangeToPeriod(ctx context.Context, periodID string, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET period_id = $1, updated_at = NOW()
		WHERE period_id IS NULL
		  AND date >= $2
		  AND date <= $3
	`

	commandTag, err := q.Exec(ctx, query, periodID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to associate records to period: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// SetFinalizedByPeriod implements attendance.RecordRepository.
func (a *attendanceRepository) SetFinalizedByPeriod(ctx context.Context, periodID string, finalized bool) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET finalized = $1, updated_at = NOW()
		WHERE period_id = $2
	`

	commandTag, err := q.Exec(ctx, query, finalized, periodID)
	if err != nil {
		return 0, fmt.Errorf("failed to set finalized flag for period records: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// CountIssuesInRange implements attendance.RecordRepository.
// The three counts are independent: one record can contribute to several.
func (a *attendanceRepository) CountIssuesInRange(ctx context.Context, start, end time.Time) (attendance.IssueCounts, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE has_conflict),
			COUNT(*) FILTER (WHERE approval_pending),
			COUNT(*) FILTER (WHERE clock_in IS NULL AND clock_out IS NULL)
		FROM attendance_records
		WHERE date >= $1 AND date <= $2
	`

	var counts attendance.IssueCounts
	err := q.QueryRow(ctx, query, start, end).Scan(
		&counts.UnresolvedConflicts,
		&counts.PendingApprovals,
		&counts.MissingData,
	)
	if err != nil {
		return attendance.IssueCounts{}, fmt.Errorf("failed to count finalization issues: %w", err)
	}

	return counts, nil
}

// PurgeOlderThan implements attendance.RecordRepository.
func (a *attendanceRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		DELETE FROM attendance_records r
		WHERE r.date < $1
		  AND (
			r.period_id IS NULL
			OR EXISTS (
				SELECT 1 FROM attendance_periods p
				WHERE p.id = r.period_id AND p.end_date < $1
			)
		  )
	`

	commandTag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge attendance records: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type periodRepository struct {
	db *database.DB
}

const exclusionViolationCode = "23P01"

const periodColumns = `id, start_date, end_date, status, finalized_by, finalized_at,
	   unlock_reason, created_by, created_at, updated_at`

func scanPeriod(row pgx.Row) (period.Period, error) {
	var p period.Period
	err := row.Scan(
		&p.ID, &p.StartDate, &p.EndDate, &p.Status, &p.FinalizedBy, &p.FinalizedAt,
		&p.UnlockReason, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements period.PeriodRepository. The range exclusion constraint
// backs up the overlap probe, so a racing insert of an intersecting range
// surfaces as ErrPeriodOverlap instead of a second committed period.
func (r *periodRepository) Create(ctx context.Context, p period.Period) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_periods (start_date, end_date, status, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, p.StartDate, p.EndDate, p.Status, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolationCode {
			return period.Period{}, period.ErrPeriodOverlap
		}
		return period.Period{}, fmt.Errorf("failed to create period: %w", err)
	}

	return p, nil
}

// GetByID implements period.PeriodRepository.
func (r *periodRepository) GetByID(ctx context.Context, id string) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM attendance_periods WHERE id = $1`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Period{}, period.ErrPeriodNotFound
		}
		return period.Period{}, fmt.Errorf("failed to get period by ID: %w", err)
	}

	return p, nil
}

// GetByIDForUpdate implements period.PeriodRepository. Must run inside a
// transaction; the row lock serializes concurrent lifecycle transitions.
func (r *periodRepository) GetByIDForUpdate(ctx context.Context, id string) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM attendance_periods WHERE id = $1 FOR UPDATE`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Period{}, period.ErrPeriodNotFound
		}
		return period.Period{}, fmt.Errorf("failed to lock period: %w", err)
	}

	return p, nil
}

// GetByRecordID implements period.PeriodRepository.
func (r *periodRepository) GetByRecordID(ctx context.Context, recordID string) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.start_date, p.end_date, p.status, p.finalized_by, p.finalized_at,
			   p.unlock_reason, p.created_by, p.created_at, p.updated_at
		FROM attendance_periods p
		JOIN attendance_records rec ON rec.period_id = p.id
		WHERE rec.id = $1
	`

	p, err := scanPeriod(q.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Period{}, period.ErrPeriodNotFound
		}
		return period.Period{}, fmt.Errorf("failed to get period by record ID: %w", err)
	}

	return p, nil
}

// List implements period.PeriodRepository.
func (r *periodRepository) List(ctx context.Context) ([]period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM attendance_periods ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	var periods []period.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}

	return periods, nil
}

// RangeOverlaps implements period.PeriodRepository. Both bounds are
// inclusive, so two ranges intersect when each starts before the other ends.
func (r *periodRepository) RangeOverlaps(ctx context.Context, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_periods
			WHERE start_date <= $2
			  AND end_date >= $1
		)
	`

	var overlaps bool
	if err := q.QueryRow(ctx, query, start, end).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("failed to check period overlap: %w", err)
	}

	return overlaps, nil
}

// UpdateStatus implements period.PeriodRepository.
func (r *periodRepository) UpdateStatus(ctx context.Context, p period.Period) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_periods
		SET status = $1,
			finalized_by = $2,
			finalized_at = $3,
			unlock_reason = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, p.Status, p.FinalizedBy, p.FinalizedAt, p.UnlockReason, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Period{}, period.ErrPeriodNotFound
		}
		return period.Period{}, fmt.Errorf("failed to update period status: %w", err)
	}

	return p, nil
}

func NewPeriodRepository(db *database.DB) period.PeriodRepository {
	return &periodRepository{db: db}
}
